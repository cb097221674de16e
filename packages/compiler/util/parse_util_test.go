package util

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLocationString(t *testing.T) {
	file := NewParseSourceFile("let a = 1;\nlet b = 2;\n", "/src/index.astro")
	loc := NewParseLocation(file, 11, 1, 0)
	if got, want := loc.String(), "/src/index.astro@1:0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	unknown := NewParseLocation(file, -1, -1, -1)
	if got := unknown.String(); got != "/src/index.astro" {
		t.Errorf("String() = %q, want bare URL", got)
	}
}

func TestGetContext(t *testing.T) {
	file := NewParseSourceFile("0123456789", "/src/index.astro")
	loc := NewParseLocation(file, 5, 0, 5)

	ctx := loc.GetContext(3, 1)
	if ctx == nil {
		t.Fatal("GetContext() = nil")
	}
	if ctx.Before != "234" {
		t.Errorf("Before = %q, want %q", ctx.Before, "234")
	}
	if ctx.After != "5678" {
		t.Errorf("After = %q, want %q", ctx.After, "5678")
	}
}

func TestGetContextStopsAtLineLimit(t *testing.T) {
	file := NewParseSourceFile("aaa\nbbb\nccc\nddd", "/src/index.astro")
	loc := NewParseLocation(file, 9, 2, 1)

	ctx := loc.GetContext(100, 1)
	if ctx == nil {
		t.Fatal("GetContext() = nil")
	}
	if strings.Contains(ctx.Before, "aaa") {
		t.Errorf("Before = %q, crossed the line limit", ctx.Before)
	}
	if strings.Contains(ctx.After, "ddd") {
		t.Errorf("After = %q, crossed the line limit", ctx.After)
	}
}

func TestSpanAt(t *testing.T) {
	file := NewParseSourceFile("let a = 1;\nlet b = 2;", "/src/index.astro")
	span := SpanAt(file, 15)

	if span.Start.Line != 1 {
		t.Errorf("Line = %d, want 1", span.Start.Line)
	}
	if span.Start.Col != 4 {
		t.Errorf("Col = %d, want 4", span.Start.Col)
	}
	if span.Start.Offset != 15 {
		t.Errorf("Offset = %d, want 15", span.Start.Offset)
	}
}

func TestParseErrorContextualMessage(t *testing.T) {
	file := NewParseSourceFile("let a = !;", "/src/index.astro")
	err := NewParseError(SpanAt(file, 8), "unexpected token")

	msg := err.ContextualMessage()
	if !strings.Contains(msg, "unexpected token") {
		t.Errorf("ContextualMessage() = %q, missing message", msg)
	}
	if !strings.Contains(msg, "[ERROR ->]") {
		t.Errorf("ContextualMessage() = %q, missing marker", msg)
	}
}

func TestParseWarningLevel(t *testing.T) {
	file := NewParseSourceFile("await thing();", "/src/index.astro")
	warn := NewParseWarning(SpanAt(file, 0), "redundant await")
	if warn.Level != ParseErrorLevelWarning {
		t.Errorf("Level = %v, want warning", warn.Level)
	}
	if !strings.Contains(warn.ContextualMessage(), "[WARNING ->]") {
		t.Errorf("ContextualMessage() = %q, missing warning marker", warn.ContextualMessage())
	}
}

func TestOrderedStringSet(t *testing.T) {
	s := NewOrderedStringSet()
	if !s.Add("a") || !s.Add("b") {
		t.Fatal("Add() of new values returned false")
	}
	if s.Add("a") {
		t.Error("Add() of duplicate returned true")
	}
	if !s.Has("b") || s.Has("c") {
		t.Error("Has() misreports membership")
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
