package replay

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kees-jan/swoq-bot/internal/action"
	"github.com/kees-jan/swoq-bot/internal/wire"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 3)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	state0 := wire.State{Status: wire.StatusActive, Tick: 1, Level: 3}
	state1 := wire.State{Status: wire.StatusActive, Tick: 2, Level: 3}

	if err := w.Write(1, action.MoveNorth, action.UseEast, true, state0); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(2, action.None, action.None, false, state1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	path := filepath.Join(dir, "level-3.swrp")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.Level != 3 {
		t.Errorf("Level = %d, want 3", r.Level)
	}

	rec1, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if rec1.Tick != 1 || rec1.Action0 != action.MoveNorth || rec1.Action1 != action.UseEast || !rec1.HasAct1 {
		t.Errorf("rec1 = %+v, unexpected", rec1)
	}
	if rec1.State.Tick != 1 || rec1.State.Level != 3 {
		t.Errorf("rec1.State = %+v, unexpected", rec1.State)
	}

	rec2, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if rec2.HasAct1 {
		t.Error("rec2.HasAct1 should be false")
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() at end = %v, want io.EOF", err)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.swrp")
	if err := os.WriteFile(path, []byte("not a replay file at all"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open() should reject a file with no valid magic header")
	}
}
