// Package hexdump formats byte ranges read out of a target process for
// terminal display.
package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// ShowOffset determines whether to show the offset/address column
	ShowOffset bool

	// StartOffset is the address of the first byte, so the offset column
	// shows real target addresses
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		ShowASCII:    true,
		ShowOffset:   true,
		StartOffset:  0,
		OffsetWidth:  12,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 12
	}

	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		formatLine(writer, data[offset:end], uint64(offset)+options.StartOffset, options)
	}
}

// formatLine formats a single line of the hex dump
func formatLine(writer io.Writer, data []byte, offset uint64, options Options) {
	if options.ShowOffset {
		fmt.Fprintf(writer, "%0"+strconv.Itoa(options.OffsetWidth)+"x  ", offset)
	}

	for i := 0; i < options.BytesPerLine; i++ {
		if i < len(data) {
			fmt.Fprintf(writer, "%02x ", data[i])
		} else {
			fmt.Fprint(writer, "   ")
		}
	}

	if options.ShowASCII {
		fmt.Fprint(writer, " |")
		for _, b := range data {
			if b < 128 && unicode.IsPrint(rune(b)) {
				fmt.Fprintf(writer, "%c", b)
			} else {
				fmt.Fprint(writer, ".")
			}
		}
		fmt.Fprint(writer, "|")
	}
	fmt.Fprintln(writer)
}

// DumpWithOffset dumps data with default options and the offset column
// anchored at startOffset
func DumpWithOffset(data []byte, startOffset uint64) string {
	options := DefaultOptions()
	options.StartOffset = startOffset
	return Dump(data, options)
}
