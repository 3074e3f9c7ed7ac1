//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"procmem/process"

	"github.com/Moonlight-Companies/gologger/logger"

	"golang.org/x/sys/unix"
)

type linuxHandle struct {
	pid process.ProcessID
	fd  int
	log *logger.Logger
}

// ReadAt uses the process_vm_readv syscall to read memory from the target
func (h *linuxHandle) ReadAt(addr process.MemoryAddress, buf []byte) (int, error) {
	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(len(buf)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(buf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(h.pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0), // flags, reserved
	)
	if errno != 0 {
		return 0, fmt.Errorf("process_vm_readv: %w", errno)
	}
	return int(n), nil
}

// WriteAt uses the process_vm_writev syscall to write memory into the target
func (h *linuxHandle) WriteAt(addr process.MemoryAddress, buf []byte) (int, error) {
	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(len(buf)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(buf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(h.pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0), // flags, reserved
	)
	if errno != 0 {
		return 0, fmt.Errorf("process_vm_writev: %w", errno)
	}
	return int(n), nil
}

func (h *linuxHandle) Close() error {
	if err := unix.Close(h.fd); err != nil {
		return fmt.Errorf("close pidfd for pid %d: %w", h.pid, err)
	}
	h.log.Infoln("Process closed")
	return nil
}

func (h *linuxHandle) Raw() uintptr {
	return uintptr(h.fd)
}
