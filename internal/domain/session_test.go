package domain

import (
	"strings"
	"testing"
)

func TestTruncateTitle(t *testing.T) {
	t.Parallel()

	if got := TruncateTitle("আজকের আবহাওয়া"); got != "আজকের আবহাওয়া" {
		t.Fatalf("short title changed: %q", got)
	}

	exact := strings.Repeat("a", 30)
	if got := TruncateTitle(exact); got != exact {
		t.Fatalf("30-char title should be kept as is, got %q", got)
	}

	long := strings.Repeat("ক", 31)
	got := TruncateTitle(long)
	if got != strings.Repeat("ক", 30)+"..." {
		t.Fatalf("unexpected truncated title: %q", got)
	}
}
