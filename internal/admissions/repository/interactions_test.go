package repository

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateContent(t *testing.T) {
	if got := TruncateContent("  hello  ", 400); got != "hello" {
		t.Errorf("TruncateContent trims whitespace, got %q", got)
	}

	long := strings.Repeat("x", 500)
	got := TruncateContent(long, InteractionContentMaxLen)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated content must end with ellipsis, got %q", got[len(got)-10:])
	}
	if len(got) != InteractionContentMaxLen+3 {
		t.Errorf("truncated length = %d, want %d", len(got), InteractionContentMaxLen+3)
	}

	if got := TruncateContent("short", InteractionContentMaxLen); got != "short" {
		t.Errorf("short content must pass through, got %q", got)
	}
}

func TestTruncateContentKeepsRunesIntact(t *testing.T) {
	// 3-byte Devanagari runes; the byte limit falls mid-rune.
	long := strings.Repeat("म", 200)
	got := TruncateContent(long, InteractionContentMaxLen)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated content is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated content must end with ellipsis, got %q", got)
	}
	if len(got) > InteractionContentMaxLen+3 {
		t.Errorf("truncated length = %d, want at most %d", len(got), InteractionContentMaxLen+3)
	}
	if len(got) != 399+3 {
		t.Errorf("cut at %d bytes, want 399 (last whole rune before the limit)", len(got)-3)
	}
}
