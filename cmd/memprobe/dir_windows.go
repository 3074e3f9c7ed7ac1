//go:build windows

package main

import (
	"procmem/process"
	"procmem/process_windows"
)

func newDirectory() process.Directory {
	return process_windows.New()
}
