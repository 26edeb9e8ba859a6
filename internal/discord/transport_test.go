package discord

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jellycord/jellycord/internal/domain"
	"go.uber.org/zap"
)

func TestFrameRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"v":1,"client_id":"123"}`)

	if err := writeFrame(&buf, opHandshake, payload); err != nil {
		t.Fatalf("writeFrame failed: %v", err)
	}

	op, got, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame failed: %v", err)
	}
	if op != opHandshake {
		t.Errorf("opcode: expected %d, got %d", opHandshake, op)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: %q", got)
	}
}

func TestReadFrame_RejectsOversizedFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0x7f}) //nolint:errcheck

	if _, _, err := readFrame(&buf); err == nil {
		t.Fatal("expected an error for an oversized frame")
	}
}

func TestSetActivity_WireFormat(t *testing.T) {
	tr := NewSocketTransport("app-1", zap.NewNop())
	var buf bytes.Buffer
	tr.conn = nopCloser{&buf}

	payload := &domain.PresencePayload{
		Details:        "Dune (2021)",
		LargeImageKey:  "https://media.example/Items/1/Images/Primary",
		LargeImageText: "Watching on Jellyfin Web",
		SmallImageKey:  "play",
		SmallImageText: "Playing",
		StartTimestamp: 1_700_000_000,
		EndTimestamp:   1_700_009_000,
		Buttons:        []domain.Button{{Label: "View on IMDb", URL: "https://imdb.example/1"}},
	}
	if err := tr.SetActivity(payload); err != nil {
		t.Fatalf("SetActivity failed: %v", err)
	}

	op, frame, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame failed: %v", err)
	}
	if op != opFrame {
		t.Errorf("opcode: expected %d, got %d", opFrame, op)
	}

	var cmd struct {
		Cmd  string `json:"cmd"`
		Args struct {
			PID      int       `json:"pid"`
			Activity *activity `json:"activity"`
		} `json:"args"`
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(frame, &cmd); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}

	if cmd.Cmd != "SET_ACTIVITY" {
		t.Errorf("cmd: got %q", cmd.Cmd)
	}
	if cmd.Args.PID == 0 {
		t.Error("expected a pid")
	}
	if cmd.Nonce == "" {
		t.Error("expected a nonce")
	}

	a := cmd.Args.Activity
	if a == nil {
		t.Fatal("expected an activity")
	}
	if a.Details != "Dune (2021)" || a.Type != activityTypeWatching {
		t.Errorf("unexpected activity: %+v", a)
	}
	if a.Timestamps == nil || a.Timestamps.Start != 1_700_000_000 || a.Timestamps.End != 1_700_009_000 {
		t.Errorf("unexpected timestamps: %+v", a.Timestamps)
	}
	if a.Assets == nil || a.Assets.SmallImage != "play" {
		t.Errorf("unexpected assets: %+v", a.Assets)
	}
	if len(a.Buttons) != 1 || a.Buttons[0].Label != "View on IMDb" {
		t.Errorf("unexpected buttons: %+v", a.Buttons)
	}
}

func TestClearActivity_OmitsActivity(t *testing.T) {
	tr := NewSocketTransport("app-1", zap.NewNop())
	var buf bytes.Buffer
	tr.conn = nopCloser{&buf}

	if err := tr.ClearActivity(); err != nil {
		t.Fatalf("ClearActivity failed: %v", err)
	}

	_, frame, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame failed: %v", err)
	}
	var cmd map[string]json.RawMessage
	if err := json.Unmarshal(frame, &cmd); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(cmd["args"], &args); err != nil {
		t.Fatalf("args is not valid JSON: %v", err)
	}
	if _, ok := args["activity"]; ok {
		t.Error("clear must omit the activity field")
	}
}

func TestActivityFromPayload_PausedOmitsStart(t *testing.T) {
	a := activityFromPayload(&domain.PresencePayload{
		Details:      "Interlude",
		EndTimestamp: domain.PausedEndTimestamp,
	})

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Timestamps map[string]int64 `json:"timestamps"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded.Timestamps["start"]; ok {
		t.Error("paused payload must not carry a start timestamp")
	}
	if decoded.Timestamps["end"] != domain.PausedEndTimestamp {
		t.Errorf("expected sentinel end timestamp, got %d", decoded.Timestamps["end"])
	}
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }
