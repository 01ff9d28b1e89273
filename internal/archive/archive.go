// Package archive persists finished session transcripts as JSON files so
// resolutions can be reviewed and replayed later. Records are grouped per
// scenario under the base directory.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/project-synapse/synapse/internal/engine"
)

// Record is one archived session transcript.
type Record struct {
	ID         string        `json:"id"`
	ScenarioID string        `json:"scenario_id,omitempty"`
	Seed       int64         `json:"seed"`
	Problem    string        `json:"problem"`
	Steps      []engine.Step `json:"steps"`
	Plan       string        `json:"plan"`
	Resolved   bool          `json:"resolved"`
	CreatedAt  time.Time     `json:"created_at"`
}

// RecordMeta is the lightweight representation used for listings.
type RecordMeta struct {
	ID         string    `json:"id"`
	ScenarioID string    `json:"scenario_id,omitempty"`
	Problem    string    `json:"problem"`
	Steps      int       `json:"steps"`
	Resolved   bool      `json:"resolved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store handles persistence of records.
type Store struct {
	basePath string
}

// NewStore creates a record store rooted at basePath, typically
// <user config dir>/synapse/sessions.
func NewStore(basePath string) *Store {
	return &Store{basePath: basePath}
}

// NewRecord wraps a terminal session into a record ready to save.
func NewRecord(sess *engine.Session, scenarioID string, seed int64) *Record {
	return &Record{
		ID:         "rec_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		ScenarioID: scenarioID,
		Seed:       seed,
		Problem:    sess.Problem,
		Steps:      sess.Steps,
		Plan:       sess.Plan,
		Resolved:   sess.Done,
		CreatedAt:  time.Now(),
	}
}

func (s *Store) dirFor(scenarioID string) string {
	if scenarioID == "" {
		scenarioID = "adhoc"
	}
	return filepath.Join(s.basePath, scenarioID)
}

// Save persists a record to disk.
func (s *Store) Save(rec *Record) error {
	dir := s.dirFor(rec.ScenarioID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.json", rec.ID))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	return nil
}

// Load retrieves a specific record.
func (s *Store) Load(id, scenarioID string) (*Record, error) {
	filename := filepath.Join(s.dirFor(scenarioID), fmt.Sprintf("%s.json", id))

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// List returns all records for a scenario, newest first.
func (s *Store) List(scenarioID string) ([]RecordMeta, error) {
	dir := s.dirFor(scenarioID)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []RecordMeta{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list archive directory: %w", err)
	}

	var records []RecordMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip unreadable files
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue // Skip invalid files
		}

		records = append(records, RecordMeta{
			ID:         rec.ID,
			ScenarioID: rec.ScenarioID,
			Problem:    rec.Problem,
			Steps:      len(rec.Steps),
			Resolved:   rec.Resolved,
			CreatedAt:  rec.CreatedAt,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes a record from disk.
func (s *Store) Delete(id, scenarioID string) error {
	filename := filepath.Join(s.dirFor(scenarioID), fmt.Sprintf("%s.json", id))
	if err := os.Remove(filename); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
