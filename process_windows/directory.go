//go:build windows

// Package process_windows resolves processes and modules through toolhelp
// snapshots and transfers bytes with ReadProcessMemory/WriteProcessMemory.
package process_windows

import (
	"fmt"
	"strings"
	"unsafe"

	"procmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"golang.org/x/sys/windows"
)

// Minimum rights for virtual-memory read, write, protection changes and
// basic query.
const openRights = windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION |
	windows.PROCESS_QUERY_INFORMATION

// WindowsDirectory implements process.Directory for Windows systems
type WindowsDirectory struct{}

// New creates a new WindowsDirectory instance
func New() process.Directory {
	return &WindowsDirectory{}
}

// ProcessesByName returns every process whose executable name matches,
// case-insensitively, in snapshot order.
func (d *WindowsDirectory) ProcessesByName(name string) ([]process.ProcessInfo, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var out []process.ProcessInfo
	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	for err = windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
		exeFile := windows.UTF16ToString(entry.ExeFile[:])
		if !strings.EqualFold(exeFile, name) {
			continue
		}
		pid := process.ProcessID(entry.ProcessID)
		out = append(out, process.ProcessInfo{
			PID:  pid,
			Name: exeFile,
			Exe:  exePath(pid),
		})
	}
	return out, nil
}

// ProcessByID returns the process with that exact pid.
func (d *WindowsDirectory) ProcessByID(pid process.ProcessID) (process.ProcessInfo, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return process.ProcessInfo{}, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	for err = windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
		if process.ProcessID(entry.ProcessID) != pid {
			continue
		}
		return process.ProcessInfo{
			PID:  pid,
			Name: windows.UTF16ToString(entry.ExeFile[:]),
			Exe:  exePath(pid),
		}, nil
	}
	return process.ProcessInfo{}, fmt.Errorf("pid %d: %w", pid, process.ErrProcessNotFound)
}

// MainModule returns the process's main executable module, the first
// entry in the module snapshot.
func (d *WindowsDirectory) MainModule(pid process.ProcessID) (process.ModuleInfo, error) {
	mods, err := d.Modules(pid)
	if err != nil {
		return process.ModuleInfo{}, err
	}
	return mods[0], nil
}

// Modules returns the process's loaded modules in snapshot order.
func (d *WindowsDirectory) Modules(pid process.ProcessID) ([]process.ModuleInfo, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(
		windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot(pid %d): %w", pid, err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Module32First(snapshot, &entry); err != nil {
		return nil, fmt.Errorf("Module32First(pid %d): %w: %w", pid, process.ErrModuleNotFound, err)
	}

	var out []process.ModuleInfo
	for {
		out = append(out, process.ModuleInfo{
			Name: windows.UTF16ToString(entry.Module[:]),
			Base: process.MemoryAddress(entry.ModBaseAddr),
			Size: process.MemorySize(entry.ModBaseSize),
			Path: windows.UTF16ToString(entry.ExePath[:]),
		})
		if err := windows.Module32Next(snapshot, &entry); err != nil {
			return out, nil
		}
	}
}

// OpenProcess opens pid with openRights. The common failure here is
// ERROR_ACCESS_DENIED on protected or higher-privileged processes.
func (d *WindowsDirectory) OpenProcess(pid process.ProcessID) (process.RawHandle, error) {
	h, err := windows.OpenProcess(openRights, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess(pid %d): %w", pid, err)
	}

	handle := &windowsHandle{
		h:   h,
		pid: pid,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}
	handle.log.Infoln("Process opened")
	return handle, nil
}

// exePath best-effort resolves a process's executable path with a
// query-only handle. Empty when access is denied.
func exePath(pid process.ProcessID) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}

type windowsHandle struct {
	h   windows.Handle
	pid process.ProcessID
	log *logger.Logger
}

func (w *windowsHandle) ReadAt(addr process.MemoryAddress, buf []byte) (int, error) {
	var n uintptr
	err := windows.ReadProcessMemory(w.h, uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	return int(n), err
}

func (w *windowsHandle) WriteAt(addr process.MemoryAddress, buf []byte) (int, error) {
	var n uintptr
	err := windows.WriteProcessMemory(w.h, uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	return int(n), err
}

func (w *windowsHandle) Close() error {
	if err := windows.CloseHandle(w.h); err != nil {
		return fmt.Errorf("CloseHandle(pid %d): %w", w.pid, err)
	}
	w.log.Infoln("Process closed")
	return nil
}

func (w *windowsHandle) Raw() uintptr {
	return uintptr(w.h)
}
