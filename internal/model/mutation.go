package model

import "strconv"

// Mutant is a candidate replacement for a target's declaration text.
type Mutant struct {
	Content     []byte
	Generator   string
	Annotations []string
	// Provenance carries generator specific details, e.g. the operator swap
	// or the candidate file a mutant was read from.
	Provenance map[string]any
}

// Metadata is persisted next to every stored mutant.
type Metadata struct {
	Dropped         bool               `json:"dropped"`
	File            string             `json:"file"`
	Language        Language           `json:"language"`
	MutantContent   string             `json:"mutantContent"`
	StartPosition   Point              `json:"startPosition"`
	EndPosition     Point              `json:"endPosition"`
	Generator       string             `json:"generator"`
	ConfigName      string             `json:"configName"`
	Config          map[string]any     `json:"config"`
	Annotations     []string           `json:"annotations"`
	ProvenanceStats map[string]float64 `json:"provenanceStats"`
	Provenance      map[string]any     `json:"provenance,omitempty"`
	RunID           string             `json:"runId,omitempty"`
}

// HasAnnotation reports whether the metadata carries annotation.
func (m Metadata) HasAnnotation(annotation string) bool {
	for _, a := range m.Annotations {
		if a == annotation {
			return true
		}
	}

	return false
}

// StoredMutant is a mutant as enumerated from the store.
type StoredMutant struct {
	Module        string
	QualifiedName string
	ID            int
	// FilePath is the patched copy of the whole source file.
	FilePath Path
	// SourceFile is the path of the original file relative to the project.
	SourceFile Path
	Metadata   Metadata
}

// Key returns the result key of the mutant.
func (s StoredMutant) Key() ResultKey {
	return ResultKey{Module: s.Module, Name: s.QualifiedName, MutantID: strconv.Itoa(s.ID)}
}

// PatchResult is the outcome of applying a mutant to its target.
type PatchResult struct {
	OK      bool
	Reason  string
	Content []byte
}

// Job is a stored mutant scheduled for a test run.
type Job struct {
	Key    ResultKey
	Mutant StoredMutant
}

// GenerationSummary counts the generated mutants per target.
type GenerationSummary struct {
	Targets []TargetSummary
}

// TargetSummary counts generated mutants of one target.
type TargetSummary struct {
	Module        string
	QualifiedName string
	Kept          int
	Dropped       int
	Rejected      int
}

// Totals returns kept, dropped and rejected counts over all targets.
func (s GenerationSummary) Totals() (kept, dropped, rejected int) {
	for _, t := range s.Targets {
		kept += t.Kept
		dropped += t.Dropped
		rejected += t.Rejected
	}

	return kept, dropped, rejected
}
