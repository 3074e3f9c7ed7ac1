//go:build linux

package process_linux

import (
	"strings"
	"testing"

	"procmem/process"
)

const sampleMaps = `55d1a0000000-55d1a0010000 r--p 00000000 fd:01 101 /usr/bin/target
55d1a0010000-55d1a0080000 r-xp 00010000 fd:01 101 /usr/bin/target
55d1a0080000-55d1a00a0000 rw-p 00080000 fd:01 101 /usr/bin/target
55d1a1000000-55d1a1021000 rw-p 00000000 00:00 0 [heap]
7f2b40000000-7f2b40028000 r--p 00000000 fd:01 202 /usr/lib/x86_64-linux-gnu/libc.so.6
7f2b40028000-7f2b401bd000 r-xp 00028000 fd:01 202 /usr/lib/x86_64-linux-gnu/libc.so.6
7f2b40400000-7f2b40402000 rw-p 00000000 00:00 0
7ffd10000000-7ffd10021000 rw-p 00000000 00:00 0 [stack]
`

func TestParseMapsAggregatesPerFile(t *testing.T) {
	mods, err := parseMaps(strings.NewReader(sampleMaps), "/usr/bin/target")
	if err != nil {
		t.Fatalf("parseMaps: %v", err)
	}
	if len(mods) != 2 {
		t.Fatalf("expected 2 modules - got %d: %v", len(mods), mods)
	}

	main := mods[0]
	if main.Name != "target" || main.Path != "/usr/bin/target" {
		t.Fatalf("expected main module first - got %s", main)
	}
	if main.Base != 0x55d1a0000000 {
		t.Fatalf("expected base of lowest mapping - got %s", main.Base)
	}
	if main.Size != process.MemorySize(0x55d1a00a0000-0x55d1a0000000) {
		t.Fatalf("expected span to highest end - got %s", main.Size)
	}

	libc := mods[1]
	if libc.Name != "libc.so.6" {
		t.Fatalf("expected libc second - got %s", libc)
	}
	if libc.Base != 0x7f2b40000000 || libc.Size != process.MemorySize(0x7f2b401bd000-0x7f2b40000000) {
		t.Fatalf("wrong libc span: %s", libc)
	}
}

func TestParseMapsExeUnknown(t *testing.T) {
	// exe unreadable (permission): order is first-seen, no reordering
	mods, err := parseMaps(strings.NewReader(sampleMaps), "")
	if err != nil {
		t.Fatalf("parseMaps: %v", err)
	}
	if mods[0].Path != "/usr/bin/target" {
		t.Fatalf("expected first-seen order - got %s", mods[0])
	}
}

func TestParseMapsMalformedRange(t *testing.T) {
	_, err := parseMaps(strings.NewReader("zzzz r--p 0 0 0 /x\n"), "")
	if err == nil {
		t.Fatal("expected error for malformed range")
	}
}
