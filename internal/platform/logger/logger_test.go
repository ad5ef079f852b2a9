package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHonorsLevel(t *testing.T) {
	ctx := context.Background()

	if !New("debug").Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug logger must admit debug records")
	}
	if New("error").Enabled(ctx, slog.LevelInfo) {
		t.Fatal("error logger must drop info records")
	}
	if !New("").Enabled(ctx, slog.LevelInfo) {
		t.Fatal("default logger must admit info records")
	}
}
