package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("negative limit should normalize to default, got %d", got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("in-range limit should pass through, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("oversized limit should cap at max, got %d", got)
	}
	if got := LimitWithBuffer(7); got != 8 {
		t.Fatalf("buffered limit should add one, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	orig := Cursor{CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), ID: 42}
	encoded := EncodeCursor(orig)

	decoded, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if !decoded.CreatedAt.Equal(orig.CreatedAt) {
		t.Fatalf("timestamp mismatch: %v vs %v", decoded.CreatedAt, orig.CreatedAt)
	}
	if decoded.ID != orig.ID {
		t.Fatalf("id mismatch: %d vs %d", decoded.ID, orig.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	decoded, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("blank cursor should not error: %v", err)
	}
	if decoded != nil {
		t.Fatal("blank cursor should decode to nil")
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, value := range []string{"not-base64!", "bm8tcGlwZQ==", "MjAyNnwtNQ=="} {
		if _, err := ParseCursor(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
