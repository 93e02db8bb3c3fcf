package notify

import (
	"bytes"
	"testing"
)

func TestConsoleWritesLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Success(SessionCreated)
	c.Error(SendFailed)

	want := "✓ " + SessionCreated + "\n✗ " + SendFailed + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRecorderErrors(t *testing.T) {
	t.Parallel()

	var r Recorder
	r.Success("ok")
	r.Error("bad")

	if len(r.Notices()) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(r.Notices()))
	}
	if errs := r.Errors(); len(errs) != 1 || errs[0] != "bad" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
