package process

import (
	"fmt"
)

// ProcessID represents a unique identifier for a process
type ProcessID int

// MemoryAddress represents an absolute address within a target process's
// address space
type MemoryAddress uint64

func (a MemoryAddress) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// MemorySize represents a size of a memory transfer or region
type MemorySize uint

func (s MemorySize) String() string {
	return fmt.Sprintf("%d bytes", uint(s))
}

// ProcessInfo contains basic information about a process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	Name string    // Process name (executable file name)
	Exe  string    // Path to the executable
}

// ModuleInfo is a snapshot of one loaded image in a process's address
// space, captured at resolution time. The target may unload or relocate
// the module afterwards; the snapshot is not refreshed.
type ModuleInfo struct {
	Name string        // Module file name, e.g. "client.dll"
	Base MemoryAddress // Load base address for the current run
	Size MemorySize    // In-memory image size
	Path string        // Backing file path
}

func (m ModuleInfo) String() string {
	return fmt.Sprintf("%s base=%s size=%s", m.Name, m.Base, m.Size)
}
