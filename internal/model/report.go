package model

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"
)

// TestStatus represents the status of a mutation test.
type TestStatus int

const (
	// Caught indicates the test suite failed against the mutant.
	Caught TestStatus = iota
	// Missed indicates the test suite passed against the mutant.
	Missed
	// TimedOut indicates the test run exceeded its deadline.
	TimedOut
	// SyntaxError indicates the mutant could not be parsed or loaded.
	SyntaxError
	// Error indicates the harness failed to run the job.
	Error
)

func (s TestStatus) String() string {
	switch s {
	case Caught:
		return "caught"
	case Missed:
		return "missed"
	case TimedOut:
		return "timeout"
	case SyntaxError:
		return "syntax_error"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ResultKey identifies an outcome.
type ResultKey struct {
	Module   string
	Name     string
	MutantID string
}

// Outcome is the result of testing one mutant.
type Outcome struct {
	Status TestStatus
	// File is the patched file that was tested.
	File string
	// Source is the original file, relative to the project.
	Source   string
	Output   string
	Err      string
	Duration time.Duration
}

// Detected reports whether the test suite rejected the mutant.
func (o Outcome) Detected() bool {
	return o.Status == Caught || o.Status == TimedOut || o.Status == SyntaxError
}

// ErrInvalidReport is returned when a report lacks its top-level object.
var ErrInvalidReport = errors.New("invalid report")

// ResultTree stores outcomes keyed by module, qualified name and mutant id.
// Insert is first-write-wins. It is not safe for concurrent use.
type ResultTree struct {
	entries map[ResultKey]Outcome
}

// NewResultTree creates an empty tree.
func NewResultTree() *ResultTree {
	return &ResultTree{entries: make(map[ResultKey]Outcome)}
}

// Insert stores outcome under key unless the key already holds one.
// It reports whether the outcome was stored.
func (t *ResultTree) Insert(key ResultKey, outcome Outcome) bool {
	if _, ok := t.entries[key]; ok {
		return false
	}

	t.entries[key] = outcome

	return true
}

// Get returns the outcome stored under key.
func (t *ResultTree) Get(key ResultKey) (Outcome, bool) {
	outcome, ok := t.entries[key]
	return outcome, ok
}

// Len returns the number of stored outcomes.
func (t *ResultTree) Len() int {
	return len(t.entries)
}

// Keys returns all keys ordered by module, name and numeric mutant id.
func (t *ResultTree) Keys() []ResultKey {
	keys := make([]ResultKey, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})

	return keys
}

// Progress tallies the stored outcomes.
func (t *ResultTree) Progress() Progress {
	progress := Progress{Total: len(t.entries)}
	for _, outcome := range t.entries {
		progress.Add(outcome.Status)
	}

	return progress
}

func keyLess(a, b ResultKey) bool {
	if a.Module != b.Module {
		return a.Module < b.Module
	}

	if a.Name != b.Name {
		return a.Name < b.Name
	}

	ai, aerr := strconv.Atoi(a.MutantID)
	bi, berr := strconv.Atoi(b.MutantID)

	if aerr == nil && berr == nil {
		return ai < bi
	}

	return a.MutantID < b.MutantID
}

type outcomeJSON struct {
	File        string  `json:"file"`
	Caught      bool    `json:"caught"`
	SyntaxError bool    `json:"syntaxError"`
	Timeout     bool    `json:"timeout"`
	Source      string  `json:"source"`
	Output      string  `json:"output"`
	Error       string  `json:"error,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
}

type treeJSON struct {
	Modules map[string]map[string]map[string]outcomeJSON `json:"modules"`
}

// MarshalJSON encodes the tree as nested module, name and mutant objects.
func (t *ResultTree) MarshalJSON() ([]byte, error) {
	doc := treeJSON{Modules: make(map[string]map[string]map[string]outcomeJSON)}

	for key, outcome := range t.entries {
		names, ok := doc.Modules[key.Module]
		if !ok {
			names = make(map[string]map[string]outcomeJSON)
			doc.Modules[key.Module] = names
		}

		mutants, ok := names[key.Name]
		if !ok {
			mutants = make(map[string]outcomeJSON)
			names[key.Name] = mutants
		}

		mutants[key.MutantID] = outcomeJSON{
			File:        outcome.File,
			Caught:      outcome.Detected(),
			SyntaxError: outcome.Status == SyntaxError,
			Timeout:     outcome.Status == TimedOut,
			Source:      outcome.Source,
			Output:      outcome.Output,
			Error:       outcome.Err,
			Duration:    outcome.Duration.Seconds(),
		}
	}

	return json.Marshal(doc)
}

// UnmarshalJSON decodes the nested format. A document without a "modules"
// object is rejected.
func (t *ResultTree) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	modules, ok := raw["modules"]
	if !ok {
		return ErrInvalidReport
	}

	var doc treeJSON
	if err := json.Unmarshal(modules, &doc.Modules); err != nil {
		return err
	}

	t.entries = make(map[ResultKey]Outcome)

	for module, names := range doc.Modules {
		for name, mutants := range names {
			for id, entry := range mutants {
				t.entries[ResultKey{Module: module, Name: name, MutantID: id}] = entry.outcome()
			}
		}
	}

	return nil
}

func (e outcomeJSON) outcome() Outcome {
	outcome := Outcome{
		File:     e.File,
		Source:   e.Source,
		Output:   e.Output,
		Err:      e.Error,
		Duration: time.Duration(e.Duration * float64(time.Second)),
	}

	switch {
	case e.Error != "":
		outcome.Status = Error
	case e.Timeout:
		outcome.Status = TimedOut
	case e.SyntaxError:
		outcome.Status = SyntaxError
	case e.Caught:
		outcome.Status = Caught
	default:
		outcome.Status = Missed
	}

	return outcome
}

// Progress counts completed jobs by status.
type Progress struct {
	Completed    int
	Total        int
	Caught       int
	Missed       int
	TimedOut     int
	SyntaxErrors int
	Errors       int
}

// Add counts one completed job.
func (p *Progress) Add(status TestStatus) {
	p.Completed++

	switch status {
	case Caught:
		p.Caught++
	case Missed:
		p.Missed++
	case TimedOut:
		p.TimedOut++
	case SyntaxError:
		p.SyntaxErrors++
	case Error:
		p.Errors++
	}
}

// Score returns the share of loadable mutants that the tests detected.
// Timeouts count as detected; syntax errors and job errors are excluded.
func (p Progress) Score() float64 {
	detected := p.Caught + p.TimedOut
	scored := detected + p.Missed

	if scored == 0 {
		return 0
	}

	return float64(detected) / float64(scored)
}
