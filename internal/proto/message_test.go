package proto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/draftarena/lobby-server/internal/match"
)

func TestEncodeStatusOmitsAbsentRound(t *testing.T) {
	payload, err := EncodeStatus(match.Status{State: match.StateIdle})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(payload), "round") {
		t.Fatalf("round must be omitted when absent: %s", payload)
	}
}

func TestEncodeStatusWithRound(t *testing.T) {
	open := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	st := match.Status{
		Count:         4,
		RemainingTime: 30,
		State:         match.StateOpen,
		Round:         &match.Round{No: 7, ID: "r7", OpenAt: open, LockAt: open.Add(time.Minute)},
	}

	payload, err := EncodeStatus(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var frame StatusFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Type != TypeStatus || frame.Count != 4 || frame.State != match.StateOpen {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if frame.Round == nil || frame.Round.No != 7 {
		t.Fatalf("expected round in frame: %+v", frame.Round)
	}
	if frame.Round.OpenAt > frame.Round.LockAt {
		t.Fatalf("openAt must not exceed lockAt")
	}
}

func TestParseInbound(t *testing.T) {
	typ, err := ParseInbound([]byte(`{"type":"cancel"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if typ != TypeCancel {
		t.Fatalf("expected upper-cased CANCEL, got %s", typ)
	}

	if _, err := ParseInbound([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for malformed frame")
	}
}
