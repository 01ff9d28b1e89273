package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/project-synapse/synapse/internal/engine"
)

func terminalSession() *engine.Session {
	sess := engine.NewSession("recipient unreachable at drop-off")
	action := &engine.Action{ToolName: "contact_recipient_via_chat", Parameters: map[string]any{"recipient_id": "R1"}}
	obs := engine.Observation{Status: engine.StatusOK, Fields: map[string]any{"contact_successful": true}}
	sess.Append(engine.Step{Kind: engine.StepAction, Thought: "try chat first", Action: action, Observation: &obs})
	sess.Append(engine.Step{Kind: engine.StepFinish, Thought: "resolved"})
	sess.Plan = "recipient confirmed, parcel handed over"
	sess.Done = true
	sess.Phase = engine.PhaseDone
	return sess
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	rec := NewRecord(terminalSession(), "SC-001", 42)
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	expectedPath := filepath.Join(store.basePath, "SC-001", rec.ID+".json")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("expected record file at %s", expectedPath)
	}

	loaded, err := store.Load(rec.ID, "SC-001")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != rec.ID || loaded.Seed != 42 || !loaded.Resolved {
		t.Errorf("loaded record: %+v", loaded)
	}
	if len(loaded.Steps) != 2 || loaded.Steps[0].Action.ToolName != "contact_recipient_via_chat" {
		t.Errorf("steps did not survive the round trip: %+v", loaded.Steps)
	}

	list, err := store.List("SC-001")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Steps != 2 {
		t.Errorf("list: %+v", list)
	}

	if err := store.Delete(rec.ID, "SC-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if after, _ := store.List("SC-001"); len(after) != 0 {
		t.Errorf("record still listed after delete: %+v", after)
	}
}

func TestAdhocRecordsGetTheirOwnDirectory(t *testing.T) {
	store := NewStore(t.TempDir())

	rec := NewRecord(terminalSession(), "", 7)
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.basePath, "adhoc", rec.ID+".json")); err != nil {
		t.Errorf("adhoc record not under adhoc/: %v", err)
	}

	list, err := store.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list: %+v", list)
	}
}

func TestListSkipsMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))
	list, err := store.List("SC-404")
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("unexpected records: %+v", list)
	}
}
