package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		withSource bool
	}{
		{name: "info has no source", level: slog.LevelInfo, withSource: false},
		{name: "warn has source", level: slog.LevelWarn, withSource: true},
		{name: "error has source", level: slog.LevelError, withSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewConditionalSourceHandler(base, slog.LevelWarn, slog.LevelError))

			l.Log(context.Background(), tt.level, "settlement submitted", "reference", "TX1")

			out := buf.String()
			assert.Equal(t, tt.withSource, strings.Contains(out, "source="), out)
			assert.Contains(t, out, "reference=TX1")
		})
	}
}

func TestConditionalSourceHandlerKeepsAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := NewLoggerWithSlog(slog.New(NewConditionalSourceHandler(base, slog.LevelError))).
		Named("settlement").
		With("donation_id", "don_1")

	l.Infow("allocation appended", "allocation_id", "alc_1")

	out := buf.String()
	assert.Contains(t, out, "logger=settlement")
	assert.Contains(t, out, "donation_id=don_1")
	assert.Contains(t, out, "allocation_id=alc_1")
	assert.NotContains(t, out, "source=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
