package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
)

func TestLogNotifierEmitsFriendlyMessage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	notifier := NewLogNotifier(log)

	remote := pkgerrors.FromResponse(409, nil, []byte(`{"message":"email already exists"}`))
	notifier.Error(context.Background(), remote)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["notification"] != "error" {
		t.Fatalf("expected error notification, got %v", entry["notification"])
	}
	want := "An account with this email already exists. Try logging in instead."
	if entry["message"] != want {
		t.Fatalf("expected friendly override, got %v", entry["message"])
	}
}

func TestRecorderCapturesOutcomes(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	rec.Success(ctx, "Artwork created successfully")
	rec.Error(ctx, pkgerrors.New(pkgerrors.CodeNetwork, "connection refused"))
	rec.Error(ctx, nil)

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected nil errors to be ignored, got %d entries", len(entries))
	}
	if entries[0].Level != LevelSuccess || entries[0].Message != "Artwork created successfully" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	last, ok := rec.Last()
	if !ok || last.Level != LevelError {
		t.Fatalf("unexpected last entry %+v", last)
	}

	rec.Reset()
	if _, ok := rec.Last(); ok {
		t.Fatalf("reset should drop entries")
	}
}
