package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLockTimeout = errors.New("state lock timeout")
	ErrRunNotFound = errors.New("run not found")
)

// Run records a proposal whose output directory was set by nestprop.
type Run struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Proposal  string    `json:"proposal"`
	Output    string    `json:"output"`
	Samples   int       `json:"samples,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type stateFile struct {
	Runs map[string]Run `json:"runs"`
}

// InitState creates the state directory and file, replacing an unreadable
// state file with an empty one.
func InitState() error {
	return withLock(initStateUnlocked)
}

// SaveRun inserts or replaces a run, assigning an ID and creation time when
// they are missing. The stored run is returned.
func SaveRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := withLock(func() error {
		state, err := loadUnlocked()
		if err != nil {
			return err
		}
		state.Runs[run.ID] = run
		return writeStateFile(state)
	})
	return run, err
}

// GetRun looks a run up by ID.
func GetRun(id string) (Run, bool, error) {
	if id == "" {
		return Run{}, false, errors.New("run id is required")
	}

	var (
		run   Run
		found bool
	)
	err := withLock(func() error {
		state, err := loadUnlocked()
		if err != nil {
			return err
		}
		run, found = state.Runs[id]
		return nil
	})
	return run, found, err
}

// ListRuns returns all runs, oldest first.
func ListRuns() ([]Run, error) {
	var runs []Run
	err := withLock(func() error {
		state, err := loadUnlocked()
		if err != nil {
			return err
		}
		runs = make([]Run, 0, len(state.Runs))
		for _, run := range state.Runs {
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	return runs, nil
}

// DeleteRun removes a run record. The run's output directory is untouched.
func DeleteRun(id string) error {
	if id == "" {
		return errors.New("run id is required")
	}

	return withLock(func() error {
		state, err := loadUnlocked()
		if err != nil {
			return err
		}
		if _, ok := state.Runs[id]; !ok {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		delete(state.Runs, id)
		return writeStateFile(state)
	})
}

func withLock(fn func() error) error {
	dir := stateDir()
	if dir == "" {
		return errors.New("state directory unavailable")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	file, err := os.OpenFile(lockFilePath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer file.Close()

	if err := flockWithTimeout(file, lockTimeout()); err != nil {
		return err
	}
	defer func() {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	}()

	return fn()
}

func flockWithTimeout(file *os.File, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			return fmt.Errorf("lock state: %w", err)
		}
		if time.Now().After(deadline) {
			return ErrLockTimeout
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func initStateUnlocked() error {
	_, err := loadUnlocked()
	return err
}

// loadUnlocked reads the state file, creating or repairing it as needed.
func loadUnlocked() (stateFile, error) {
	empty := stateFile{Runs: map[string]Run{}}

	data, err := os.ReadFile(stateFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return empty, writeStateFile(empty)
		}
		return stateFile{}, fmt.Errorf("read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return empty, writeStateFile(empty)
	}
	if state.Runs == nil {
		state.Runs = map[string]Run{}
	}
	return state, nil
}

func writeStateFile(state stateFile) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return writeFileAtomic(stateFilePath(), data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func lockTimeout() time.Duration {
	if value := os.Getenv("NESTPROP_LOCK_TIMEOUT"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return 10 * time.Second
}

func stateDir() string {
	if value := os.Getenv("NESTPROP_STATE_DIR"); value != "" {
		return value
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "nestprop")
}

func stateFilePath() string {
	if value := os.Getenv("NESTPROP_STATE_FILE"); value != "" {
		return value
	}
	return filepath.Join(stateDir(), "state.json")
}

func lockFilePath() string {
	return filepath.Join(stateDir(), "state.lock")
}
