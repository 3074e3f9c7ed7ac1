//go:build linux

package main

import (
	"procmem/process"
	"procmem/process_linux"
)

func newDirectory() process.Directory {
	return process_linux.New()
}
