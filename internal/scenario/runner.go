// Package scenario loads disruption scenarios from CSV and scopes the
// tool catalog to what each scenario allows.
package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/project-synapse/synapse/internal/engine"
)

// Scenario is one row of the scenario CSV. Expected columns:
// id,vertical,title,description,initial_state,allowed_tools,success_criteria,escalation_threshold,seed
type Scenario struct {
	ID                  string   `json:"id"`
	Vertical            string   `json:"vertical"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	InitialState        string   `json:"initial_state"`
	AllowedTools        []string `json:"allowed_tools"`
	SuccessCriteria     string   `json:"success_criteria"`
	EscalationThreshold int      `json:"escalation_threshold"`
	Seed                int64    `json:"seed"`
	HasSeed             bool     `json:"-"`
}

// Problem renders the scenario as the problem statement fed to a session.
func (s Scenario) Problem() string {
	var b strings.Builder
	b.WriteString(s.Description)
	if s.InitialState != "" {
		fmt.Fprintf(&b, "\n\nInitial state: %s", s.InitialState)
	}
	if s.SuccessCriteria != "" {
		fmt.Fprintf(&b, "\nSuccess criteria: %s", s.SuccessCriteria)
	}
	return b.String()
}

// SeedOr returns the scenario's seed, or fallback when the CSV left it blank.
func (s Scenario) SeedOr(fallback int64) int64 {
	if s.HasSeed {
		return s.Seed
	}
	return fallback
}

// Restrict narrows a catalog to the scenario's allowed tools. An empty
// allowed_tools column means no restriction.
func (s Scenario) Restrict(reg engine.ToolRegistry) engine.ToolRegistry {
	if len(s.AllowedTools) == 0 {
		return reg
	}
	return reg.FilterByNames(s.AllowedTools)
}

// ToolAllowed reports whether the scenario permits a tool. Everything is
// allowed when the scenario does not restrict its catalog.
func (s Scenario) ToolAllowed(tool string) bool {
	if len(s.AllowedTools) == 0 {
		return true
	}
	for _, name := range s.AllowedTools {
		if name == tool {
			return true
		}
	}
	return false
}

// Runner holds the loaded scenario set keyed by ID.
type Runner struct {
	scenarios map[string]Scenario
	order     []string
}

// Load reads and parses a scenario CSV file.
func Load(path string) (*Runner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenarios: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads scenario rows from an open CSV stream. The first row is the
// header; rows missing an id are rejected.
func Parse(r io.Reader) (*Runner, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse scenarios: empty file")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["id"]; !ok {
		return nil, fmt.Errorf("parse scenarios: header missing id column")
	}

	runner := &Runner{scenarios: make(map[string]Scenario)}
	for n, row := range rows[1:] {
		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		sc := Scenario{
			ID:              field("id"),
			Vertical:        field("vertical"),
			Title:           field("title"),
			Description:     field("description"),
			InitialState:    field("initial_state"),
			SuccessCriteria: field("success_criteria"),
		}
		if sc.ID == "" {
			return nil, fmt.Errorf("parse scenarios: row %d has no id", n+2)
		}
		for _, tool := range strings.Split(field("allowed_tools"), ",") {
			if tool = strings.TrimSpace(tool); tool != "" {
				sc.AllowedTools = append(sc.AllowedTools, tool)
			}
		}
		if raw := field("escalation_threshold"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				sc.EscalationThreshold = v
			}
		}
		if raw := field("seed"); raw != "" {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				sc.Seed = v
				sc.HasSeed = true
			}
		}

		if _, dup := runner.scenarios[sc.ID]; dup {
			return nil, fmt.Errorf("parse scenarios: duplicate id %s", sc.ID)
		}
		runner.scenarios[sc.ID] = sc
		runner.order = append(runner.order, sc.ID)
	}
	return runner, nil
}

// Get looks up a scenario by ID.
func (r *Runner) Get(id string) (Scenario, bool) {
	sc, ok := r.scenarios[id]
	return sc, ok
}

// List returns all scenarios in file order.
func (r *Runner) List() []Scenario {
	out := make([]Scenario, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scenarios[id])
	}
	return out
}

// Len reports how many scenarios were loaded.
func (r *Runner) Len() int { return len(r.scenarios) }
