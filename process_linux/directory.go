//go:build linux

// Package process_linux resolves processes through /proc, builds the
// module table from /proc/<pid>/maps and transfers bytes with
// process_vm_readv/process_vm_writev.
package process_linux

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"procmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"golang.org/x/sys/unix"
)

// LinuxDirectory implements process.Directory for Linux systems
type LinuxDirectory struct{}

// New creates a new LinuxDirectory instance
func New() process.Directory {
	return &LinuxDirectory{}
}

// ProcessesByName returns every process whose comm or exe basename equals
// name (exact match, like pidof), ordered by ascending pid so the first
// match is deterministic. The calling process itself is skipped.
func (d *LinuxDirectory) ProcessesByName(name string) ([]process.ProcessInfo, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessInfo

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		info, err := statProcess(process.ProcessID(pid))
		if err != nil {
			continue // raced with exit, or no permission
		}
		if info.Name == name || (info.Exe != "" && filepath.Base(info.Exe) == name) {
			out = append(out, info)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

// ProcessByID returns the process with that exact pid.
func (d *LinuxDirectory) ProcessByID(pid process.ProcessID) (process.ProcessInfo, error) {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return process.ProcessInfo{}, fmt.Errorf("pid %d: %w", pid, process.ErrProcessNotFound)
	}
	return statProcess(pid)
}

// MainModule returns the module backed by the process's executable.
func (d *LinuxDirectory) MainModule(pid process.ProcessID) (process.ModuleInfo, error) {
	mods, err := d.Modules(pid)
	if err != nil {
		return process.ModuleInfo{}, err
	}
	return mods[0], nil
}

// Modules parses /proc/<pid>/maps into one entry per backing file. The
// main module is the first entry.
func (d *LinuxDirectory) Modules(pid process.ProcessID) ([]process.ModuleInfo, error) {
	exe, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pid %d: %w", pid, process.ErrProcessNotFound)
		}
		return nil, fmt.Errorf("open maps for pid %d: %w", pid, err)
	}
	defer f.Close()

	mods, err := parseMaps(f, exe)
	if err != nil {
		return nil, fmt.Errorf("parse maps for pid %d: %w", pid, err)
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("pid %d has no file-backed mappings: %w", pid, process.ErrModuleNotFound)
	}
	return mods, nil
}

// OpenProcess opens a pidfd for pid. The fd is the OS handle the accessor
// owns; transfers address the process by pid, which stays valid for the
// handle's lifetime because the pidfd pins the pid.
func (d *LinuxDirectory) OpenProcess(pid process.ProcessID) (process.RawHandle, error) {
	fd, err := unix.PidfdOpen(int(pid), 0)
	if err != nil {
		return nil, fmt.Errorf("pidfd_open(pid %d): %w", pid, err)
	}

	handle := &linuxHandle{
		pid: pid,
		fd:  fd,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}
	handle.log.Infoln("Process opened")
	return handle, nil
}

func statProcess(pid process.ProcessID) (process.ProcessInfo, error) {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return process.ProcessInfo{}, fmt.Errorf("read comm for pid %d: %w", pid, err)
	}
	// exe may be unreadable for other users' processes; best effort
	exe, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	return process.ProcessInfo{
		PID:  pid,
		Name: string(trimSpaceRight(comm)),
		Exe:  exe,
	}, nil
}

// comm has a trailing newline
func trimSpaceRight(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
