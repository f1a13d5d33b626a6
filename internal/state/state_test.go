package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func useTempState(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("NESTPROP_STATE_DIR", tempDir)
	t.Setenv("NESTPROP_STATE_FILE", filepath.Join(tempDir, "state.json"))
	return tempDir
}

func TestInitStateCreatesAndRepairsFile(t *testing.T) {
	tempDir := useTempState(t)
	path := filepath.Join(tempDir, "state.json")

	if err := InitState(); err != nil {
		t.Fatalf("init state: %v", err)
	}
	assertEmptyState(t, path)

	if err := os.WriteFile(path, []byte("{invalid"), 0o644); err != nil {
		t.Fatalf("write invalid state: %v", err)
	}
	if err := InitState(); err != nil {
		t.Fatalf("reinit state: %v", err)
	}
	assertEmptyState(t, path)
}

func TestSaveGetListDeleteRun(t *testing.T) {
	useTempState(t)

	first, err := SaveRun(Run{Proposal: "identity", Output: "/tmp/a", Status: "ready"})
	if err != nil {
		t.Fatalf("save run: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", first)
	}

	second, err := SaveRun(Run{
		Proposal:  "uniform",
		Output:    "/tmp/b",
		Status:    "complete",
		CreatedAt: first.CreatedAt.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("save second run: %v", err)
	}

	got, found, err := GetRun(first.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !found || got.Output != "/tmp/a" {
		t.Fatalf("expected stored run, got %+v (found=%v)", got, found)
	}

	runs, err := ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != first.ID || runs[1].ID != second.ID {
		t.Fatalf("expected runs oldest first, got %+v", runs)
	}

	if err := DeleteRun(first.ID); err != nil {
		t.Fatalf("delete run: %v", err)
	}
	if _, found, _ := GetRun(first.ID); found {
		t.Fatalf("expected run to be deleted")
	}
	if err := DeleteRun(first.ID); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func assertEmptyState(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if len(state.Runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(state.Runs))
	}
}
