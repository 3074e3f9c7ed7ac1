package hexdump

import (
	"strings"
	"testing"
)

func TestDumpWithOffset(t *testing.T) {
	data := []byte("Hello\x00\x01\x02")
	out := DumpWithOffset(data, 0x7ff600401000)

	if !strings.Contains(out, "7ff600401000") {
		t.Fatalf("missing address column:\n%s", out)
	}
	if !strings.Contains(out, "48 65 6c 6c 6f 00 01 02") {
		t.Fatalf("missing hex bytes:\n%s", out)
	}
	if !strings.Contains(out, "|Hello...|") {
		t.Fatalf("missing ascii column:\n%s", out)
	}
}

func TestDumpLineSplit(t *testing.T) {
	options := DefaultOptions()
	options.BytesPerLine = 4
	options.ShowASCII = false

	out := Dump(make([]byte, 10), options)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines - got %d:\n%s", len(lines), out)
	}
}
