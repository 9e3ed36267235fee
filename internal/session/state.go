// Package session persists the active recording session so that the next
// invocation, a separate process, can discover and stop it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNoSession means no recording is in progress.
	ErrNoSession = errors.New("no active recording session")
	// ErrSessionActive means a session record already exists.
	ErrSessionActive = errors.New("a recording is already in progress")
)

// State is the durable record of an active recording session.
type State struct {
	PID        int       `json:"pid"`
	AudioPath  string    `json:"audio_path"`
	StartedAt  time.Time `json:"started_at"`
	MaxSeconds int       `json:"max_seconds"`
}

// Status classifies what the persisted state means for the current invocation.
type Status int

const (
	// StatusIdle: no state file, nothing to stop.
	StatusIdle Status = iota
	// StatusStarting: the slot is claimed but the recorder pid is not
	// persisted yet; another invocation is mid-start.
	StatusStarting
	// StatusActive: the recorder process is running.
	StatusActive
	// StatusFinished: the recorder exited on its own (duration ceiling) but
	// left a finished audio file behind; stop processing should still run.
	StatusFinished
	// StatusStale: the recorder died without producing audio; the state is
	// crash residue and should be cleared.
	StatusStale
)

// startGrace bounds how long a pid-less record counts as an in-flight start.
// A record older than this with no pid is crash residue from a start that
// never finished.
const startGrace = 5 * time.Second

// Store reads and writes the session state file.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Path() string {
	return filepath.Join(s.dir, "state.json")
}

// Acquire claims the session slot by creating the state file exclusively.
// Two racing invocations cannot both succeed; the loser gets ErrSessionActive.
func (s *Store) Acquire(st *State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrSessionActive
		}
		return fmt.Errorf("creating state file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(st); err != nil {
		os.Remove(s.Path())
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// Update rewrites the state of an already-acquired session. The write goes
// through a temp file and rename so a concurrent reader never sees a torn record.
func (s *Store) Update(st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return os.Rename(tmp, s.Path())
}

// Load reads the persisted state. Returns ErrNoSession when idle.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	return &st, nil
}

// Release removes the state file, re-enabling fresh starts.
func (s *Store) Release() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state: %w", err)
	}
	return nil
}

// Inspect loads the state and classifies it against the live process table
// and the audio file on disk.
func (s *Store) Inspect() (*State, Status, error) {
	st, err := s.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, StatusIdle, nil
		}
		// An unreadable record can't be stopped; classify as stale so the
		// toggle clears it and starts fresh instead of wedging.
		return &State{}, StatusStale, nil
	}

	if st.PID <= 0 || st.AudioPath == "" {
		// Acquire persists the record before the recorder pid is known. A
		// fresh pid-less record means a start is in flight, not a crash.
		if st.PID == 0 && st.AudioPath != "" && time.Since(st.StartedAt) < startGrace {
			return st, StatusStarting, nil
		}
		return st, StatusStale, nil
	}

	if Alive(st.PID) {
		return st, StatusActive, nil
	}

	// Recorder is gone. A finished, non-empty audio file means the duration
	// ceiling fired and the recording completed on its own.
	if fi, err := os.Stat(st.AudioPath); err == nil && fi.Size() > 0 {
		return st, StatusFinished, nil
	}
	return st, StatusStale, nil
}
