package process

import (
	"strings"
	"testing"
)

type playerState struct {
	Health   uint32
	Armor    uint32
	Position [3]float32
	Flags    uint64
}

func TestTypedRoundTrip(t *testing.T) {
	acc, _ := newTestAccessor(t)

	want := playerState{
		Health:   100,
		Armor:    50,
		Position: [3]float32{1.5, -2.25, 1024},
		Flags:    0xdead_beef_cafe_f00d,
	}
	if err := WriteT(acc, testBase+0x80, want); err != nil {
		t.Fatalf("WriteT: %v", err)
	}

	got, err := ReadT[playerState](acc, testBase+0x80)
	if err != nil {
		t.Fatalf("ReadT: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v - got %+v", want, got)
	}
}

func TestTypedRejectsManagedReferences(t *testing.T) {
	acc, handle := newTestAccessor(t)

	type withPointer struct {
		Health uint32
		Next   *playerState
	}
	if _, err := ReadT[withPointer](acc, testBase); err == nil {
		t.Fatal("expected rejection of pointer-bearing type")
	}
	if err := WriteT(acc, testBase, withPointer{}); err == nil {
		t.Fatal("expected rejection of pointer-bearing type")
	}

	type withString struct {
		Name string
	}
	_, err := ReadT[withString](acc, testBase)
	if err == nil || !strings.Contains(err.Error(), "not plain data") {
		t.Fatalf("expected not-plain-data error - got %v", err)
	}

	if handle.reads != 0 || handle.writes != 0 {
		t.Fatalf("OS layer was invoked for rejected type: %d reads, %d writes", handle.reads, handle.writes)
	}
}

func TestSizeOfMatchesLayout(t *testing.T) {
	if s := SizeOf[uint64](); s != 8 {
		t.Fatalf("expected 8 - got %s", s)
	}
	// struct size includes trailing padding, same as the in-memory layout
	type padded struct {
		A uint64
		B uint8
	}
	if s := SizeOf[padded](); s != 16 {
		t.Fatalf("expected 16 - got %s", s)
	}
}
