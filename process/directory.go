package process

// Directory is the OS process/module directory the accessor resolves
// against. Platform packages (process_windows, process_linux) provide the
// real implementations; tests use in-memory fakes.
type Directory interface {
	// ProcessesByName returns every process whose name matches. Order is
	// platform-defined but stable; callers taking the first entry get the
	// platform's "first match".
	ProcessesByName(name string) ([]ProcessInfo, error)

	// ProcessByID returns the process with that exact id, or an error
	// wrapping ErrProcessNotFound if it does not exist or has exited.
	ProcessByID(pid ProcessID) (ProcessInfo, error)

	// MainModule returns the process's main executable module.
	MainModule(pid ProcessID) (ModuleInfo, error)

	// Modules returns the process's loaded modules. The main module is the
	// first entry.
	Modules(pid ProcessID) ([]ModuleInfo, error)

	// OpenProcess opens pid with the minimum rights required for
	// virtual-memory read, write, operation and basic query. The returned
	// handle is owned by the caller and must be closed exactly once.
	OpenProcess(pid ProcessID) (RawHandle, error)
}

// RawHandle is an open OS handle to a target process. ReadAt and WriteAt
// return the byte count the OS reports it moved, which the accessor checks
// against the requested count; a short transfer is the accessor's problem
// to reject, not the handle's.
type RawHandle interface {
	ReadAt(addr MemoryAddress, buf []byte) (int, error)
	WriteAt(addr MemoryAddress, buf []byte) (int, error)
	Close() error

	// Raw exposes the underlying OS handle value for escape-hatch use.
	Raw() uintptr
}
