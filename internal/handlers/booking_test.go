package handlers

import (
	"strings"
	"testing"
)

func TestNewBookingIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newBookingID()

		if !strings.HasPrefix(id, "USR-") {
			t.Fatalf("missing prefix: %s", id)
		}
		suffix := strings.TrimPrefix(id, "USR-")
		if len(suffix) != 8 {
			t.Fatalf("expected 8-char suffix, got %q", suffix)
		}
		if suffix != strings.ToUpper(suffix) {
			t.Fatalf("suffix not uppercased: %s", suffix)
		}
		for _, r := range suffix {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				t.Fatalf("non-hex rune %q in %s", r, id)
			}
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Fatal("ids are not random")
	}
}
