// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// decodeLine parses the single JSON log line in buf.
func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log output is not a single JSON object: %v (%q)", err, buf.String())
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info message written at warn level: %q", buf.String())
	}

	Warn().Str("key", "value").Msg("shown")
	entry := decodeLine(t, &buf)
	if entry["message"] != "shown" {
		t.Errorf("message = %v, want shown", entry["message"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected time field")
	}
}

func TestInitConsoleFormat(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	Info().Msg("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") {
		t.Errorf("console output = %q, want message", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console output looks like JSON: %q", out)
	}
}

func TestErr(t *testing.T) {
	defer SetLogger(Logger())
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))

	Err(errors.New("boom")).Msg("failed")
	entry := decodeLine(t, &buf)
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
}

func TestCtx(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	Ctx(ctx).Info().Msg("handled")
	entry := decodeLine(t, &buf)
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", entry["request_id"])
	}
	if entry["correlation_id"] != "corr-1" {
		t.Errorf("correlation_id = %v, want corr-1", entry["correlation_id"])
	}
}

func TestCtxWithoutIDs(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))

	Ctx(ctx).Info().Msg("plain")
	entry := decodeLine(t, &buf)
	if _, ok := entry["request_id"]; ok {
		t.Error("unexpected request_id field")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("RequestIDFromContext on empty context should be empty")
	}
	if CorrelationIDFromContext(context.Background()) != "" {
		t.Error("CorrelationIDFromContext on empty context should be empty")
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 {
		t.Errorf("len(GenerateRequestID()) = %d, want 36", len(a))
	}
	if a == b {
		t.Error("GenerateRequestID() returned duplicate ids")
	}
}

func TestWithComponent(t *testing.T) {
	defer SetLogger(Logger())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))

	logger := WithComponent("cache")
	logger.Info().Msg("ready")

	entry := decodeLine(t, &buf)
	if entry["component"] != "cache" {
		t.Errorf("component = %v, want cache", entry["component"])
	}
}
