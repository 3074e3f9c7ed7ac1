// Package process implements a remote memory accessor: resolve a target
// process and one of its loaded modules through a Directory, hold an open
// handle, and move raw or typed bytes between this process and the target.
package process

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
)

// ErrShortTransfer reports that the OS claimed success but moved fewer
// bytes than requested. A short transfer is always an error, never
// silently accepted.
var ErrShortTransfer = errors.New("short transfer")

// Accessor binds one open process handle to one module snapshot. All
// read/write addresses are absolute; callers compute module-relative
// addresses as Module().Base + offset themselves. The accessor performs
// no bounds checking against the module span, the OS transfer primitive
// does its own validation.
//
// An Accessor is not safe for concurrent use; callers needing that must
// serialize externally or open one accessor per goroutine.
type Accessor struct {
	info   ProcessInfo
	mod    ModuleInfo
	handle RawHandle
	closed bool
}

// OpenByName resolves the first process whose name matches, resolves
// moduleName within it (the main module when moduleName is empty) and
// opens a handle. When several processes share the name the first match
// wins; there is no disambiguation.
func OpenByName(dir Directory, name, moduleName string) (*Accessor, error) {
	procs, err := dir.ProcessesByName(name)
	if err != nil {
		return nil, &OpError{Op: "resolve", Err: err}
	}
	if len(procs) == 0 {
		return nil, &OpError{Op: "resolve", Err: fmt.Errorf("no process named %q: %w", name, ErrProcessNotFound)}
	}
	return open(dir, procs[0], moduleName)
}

// OpenByPID resolves the process with exactly that id, resolves
// moduleName within it (the main module when moduleName is empty) and
// opens a handle.
func OpenByPID(dir Directory, pid ProcessID, moduleName string) (*Accessor, error) {
	info, err := dir.ProcessByID(pid)
	if err != nil {
		return nil, &OpError{Op: "resolve", Err: err}
	}
	return open(dir, info, moduleName)
}

func open(dir Directory, info ProcessInfo, moduleName string) (*Accessor, error) {
	mod, err := resolveModule(dir, info.PID, moduleName)
	if err != nil {
		return nil, err
	}

	handle, err := dir.OpenProcess(info.PID)
	if err != nil {
		return nil, &OpError{Op: "open", Err: err}
	}

	return &Accessor{info: info, mod: mod, handle: handle}, nil
}

// resolveModule picks the main module for an empty name, otherwise the
// first module whose name matches case-insensitively.
func resolveModule(dir Directory, pid ProcessID, name string) (ModuleInfo, error) {
	if name == "" {
		mod, err := dir.MainModule(pid)
		if err != nil {
			return ModuleInfo{}, &OpError{Op: "resolve", Err: err}
		}
		return mod, nil
	}

	mods, err := dir.Modules(pid)
	if err != nil {
		return ModuleInfo{}, &OpError{Op: "resolve", Err: err}
	}
	for _, mod := range mods {
		if strings.EqualFold(mod.Name, name) {
			return mod, nil
		}
	}
	return ModuleInfo{}, &OpError{Op: "resolve", Err: fmt.Errorf("no module named %q in pid %d: %w", name, pid, ErrModuleNotFound)}
}

// PID returns the target process id.
func (a *Accessor) PID() ProcessID {
	return a.info.PID
}

// ExePath returns the target's executable path.
func (a *Accessor) ExePath() string {
	return a.info.Exe
}

// Module returns the module snapshot captured at construction time.
func (a *Accessor) Module() ModuleInfo {
	return a.mod
}

// Handle exposes the underlying OS handle for advanced use. The handle
// stays owned by the accessor; do not close it.
func (a *Accessor) Handle() RawHandle {
	return a.handle
}

// Close releases the process handle. Close is idempotent: the second and
// later calls are no-ops and do not touch the OS.
func (a *Accessor) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.handle.Close()
}

// ReadMemory reads exactly size bytes starting at addr, verbatim from the
// target at the moment of the call. Size 0 succeeds with an empty slice
// without an OS call. A short read is an *OpError wrapping
// ErrShortTransfer.
func (a *Accessor) ReadMemory(addr MemoryAddress, size MemorySize) ([]byte, error) {
	if a.closed {
		return nil, &OpError{Op: "read", Addr: addr, Requested: int(size), Err: ErrClosed}
	}
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := a.handle.ReadAt(addr, buf)
	if err != nil {
		return nil, &OpError{Op: "read", Addr: addr, Requested: int(size), Transferred: n, Err: err}
	}
	if n != int(size) {
		return nil, &OpError{Op: "read", Addr: addr, Requested: int(size), Transferred: n, Err: ErrShortTransfer}
	}
	return buf, nil
}

// WriteMemory writes all of data at addr. The target region must already
// be writable; there is no protection toggling and no retry. A short
// write is an *OpError wrapping ErrShortTransfer.
func (a *Accessor) WriteMemory(addr MemoryAddress, data []byte) error {
	if a.closed {
		return &OpError{Op: "write", Addr: addr, Requested: len(data), Err: ErrClosed}
	}
	if len(data) == 0 {
		return nil
	}

	n, err := a.handle.WriteAt(addr, data)
	if err != nil {
		return &OpError{Op: "write", Addr: addr, Requested: len(data), Transferred: n, Err: err}
	}
	if n != len(data) {
		return &OpError{Op: "write", Addr: addr, Requested: len(data), Transferred: n, Err: ErrShortTransfer}
	}
	return nil
}

// ReadString reads maxBytes bytes at addr and decodes them as a
// null-terminated string, UTF-16LE when wide is true, raw bytes
// otherwise. The result is cut at the first null; when no null appears
// within maxBytes the full decoded buffer is returned untruncated, which
// is never an error. Malformed UTF-16 units decode to U+FFFD.
func (a *Accessor) ReadString(addr MemoryAddress, maxBytes MemorySize, wide bool) (string, error) {
	data, err := a.ReadMemory(addr, maxBytes)
	if err != nil {
		return "", err
	}

	if !wide {
		for i, b := range data {
			if b == 0 {
				return string(data[:i]), nil
			}
		}
		return string(data), nil
	}

	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// WriteString encodes s with a trailing null terminator, UTF-16LE when
// wide is true, raw bytes otherwise, and writes the encoding at addr. The
// terminator is always appended; callers must size the destination for
// the extra byte(s).
func (a *Accessor) WriteString(addr MemoryAddress, s string, wide bool) error {
	var data []byte
	if wide {
		units := utf16.Encode([]rune(s))
		data = make([]byte, 0, 2*len(units)+2)
		for _, u := range units {
			data = binary.LittleEndian.AppendUint16(data, u)
		}
		data = binary.LittleEndian.AppendUint16(data, 0)
	} else {
		data = append([]byte(s), 0)
	}
	return a.WriteMemory(addr, data)
}

// ReadUint32 reads an unsigned 32-bit integer from the specified address
func (a *Accessor) ReadUint32(addr MemoryAddress) (uint32, error) {
	data, err := a.ReadMemory(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadUint64 reads an unsigned 64-bit integer from the specified address
func (a *Accessor) ReadUint64(addr MemoryAddress) (uint64, error) {
	data, err := a.ReadMemory(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// ReadFloat32 reads a 32-bit floating point number from the specified address
func (a *Accessor) ReadFloat32(addr MemoryAddress) (float32, error) {
	data, err := a.ReadMemory(addr, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(data)), nil
}
