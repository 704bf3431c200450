package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 50, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Errorf("LimitWithBuffer(10) = %d, want 11", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		CreatedAt: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
		ID:        uuid.New(),
	}
	parsed, err := ParseCursor(EncodeCursor(c))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.CreatedAt.Equal(c.CreatedAt) || parsed.ID != c.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, c)
	}
}

func TestParseCursorErrors(t *testing.T) {
	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %v %v", c, err)
	}
	if _, err := ParseCursor("%%%not-base64"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := ParseCursor("bm8tcGlwZQ=="); err == nil { // "no-pipe"
		t.Fatal("expected format error")
	}
}
