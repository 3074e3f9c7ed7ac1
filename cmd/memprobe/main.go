// memprobe attaches to a running process and reads or writes a byte range
// in its address space, relative to a chosen module or at an absolute
// address.
//
//	memprobe -name target.exe -module client.dll -addr +1A0 -len 32
//	memprobe -pid 1234 -addr 0x7ff6a0001a0 -write deadbeef
//	memprobe -pid 1234 -addr +200 -str -wide=false
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"procmem/hexdump"
	"procmem/process"
)

func main() {
	nameFlag := flag.String("name", "", "Process name to attach to")
	pidFlag := flag.Int("pid", 0, "Process ID to attach to")
	moduleFlag := flag.String("module", "", "Module name (default: main module)")
	addrFlag := flag.String("addr", "", "Address in hex; prefix with '+' for module-relative")
	lenFlag := flag.Uint("len", 64, "Number of bytes to read")
	writeFlag := flag.String("write", "", "Hex bytes to write instead of reading")
	strFlag := flag.Bool("str", false, "Read a null-terminated string instead of raw bytes")
	wideFlag := flag.Bool("wide", true, "Treat strings as UTF-16")
	flag.Parse()

	if (*nameFlag == "") == (*pidFlag == 0) {
		fmt.Println("Error: exactly one of -name or -pid is required")
		flag.Usage()
		os.Exit(1)
	}
	if *addrFlag == "" {
		fmt.Println("Error: -addr is required")
		flag.Usage()
		os.Exit(1)
	}

	dir := newDirectory()

	var acc *process.Accessor
	var err error
	if *nameFlag != "" {
		acc, err = process.OpenByName(dir, *nameFlag, *moduleFlag)
	} else {
		acc, err = process.OpenByPID(dir, process.ProcessID(*pidFlag), *moduleFlag)
	}
	if err != nil {
		fail(err)
	}
	defer acc.Close()

	fmt.Printf("Attached to pid %d (%s)\n", acc.PID(), acc.ExePath())
	fmt.Printf("Module: %s\n", acc.Module())

	addr, err := parseAddr(*addrFlag, acc.Module().Base)
	if err != nil {
		fmt.Printf("Error parsing -addr: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *writeFlag != "":
		data, err := hex.DecodeString(strings.TrimPrefix(*writeFlag, "0x"))
		if err != nil {
			fmt.Printf("Error parsing -write: %v\n", err)
			os.Exit(1)
		}
		if err := acc.WriteMemory(addr, data); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote %d bytes at %s\n", len(data), addr)

	case *strFlag:
		s, err := acc.ReadString(addr, process.MemorySize(*lenFlag), *wideFlag)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s: %q\n", addr, s)

	default:
		data, err := acc.ReadMemory(addr, process.MemorySize(*lenFlag))
		if err != nil {
			fail(err)
		}
		fmt.Print(hexdump.DumpWithOffset(data, uint64(addr)))
	}
}

// parseAddr accepts "0x1234" or "1234" as an absolute address and
// "+1234" as an offset from the module base.
func parseAddr(s string, base process.MemoryAddress) (process.MemoryAddress, error) {
	relative := strings.HasPrefix(s, "+")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "0x")

	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	if relative {
		return base + process.MemoryAddress(v), nil
	}
	return process.MemoryAddress(v), nil
}

func fail(err error) {
	var opErr *process.OpError
	switch {
	case errors.Is(err, process.ErrProcessNotFound):
		fmt.Printf("Error: %v\nIs the target running? Check the name or pid.\n", err)
	case errors.Is(err, process.ErrModuleNotFound):
		fmt.Printf("Error: %v\nList the target's modules to check the spelling.\n", err)
	case errors.As(err, &opErr):
		fmt.Printf("Error: %v\nOpening or transferring failed; you may need elevated privileges.\n", err)
	default:
		fmt.Printf("Error: %v\n", err)
	}
	os.Exit(1)
}
