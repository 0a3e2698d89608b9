package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultTree_InsertFirstWriteWins(t *testing.T) {
	tree := NewResultTree()
	key := ResultKey{Module: "calc", Name: "add", MutantID: "0"}

	assert.True(t, tree.Insert(key, Outcome{Status: Caught, Output: "first"}))
	assert.False(t, tree.Insert(key, Outcome{Status: Missed, Output: "second"}))

	got, ok := tree.Get(key)
	require.True(t, ok)
	assert.Equal(t, Caught, got.Status)
	assert.Equal(t, "first", got.Output)
	assert.Equal(t, 1, tree.Len())
}

func TestResultTree_GetMissingKey(t *testing.T) {
	tree := NewResultTree()

	_, ok := tree.Get(ResultKey{Module: "nope", Name: "f", MutantID: "1"})
	assert.False(t, ok)
}

func TestResultTree_KeysOrderedNumerically(t *testing.T) {
	tree := NewResultTree()
	for _, id := range []string{"10", "2", "1"} {
		tree.Insert(ResultKey{Module: "m", Name: "f", MutantID: id}, Outcome{})
	}
	tree.Insert(ResultKey{Module: "a", Name: "z", MutantID: "5"}, Outcome{})

	keys := tree.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, "a", keys[0].Module)
	assert.Equal(t, []string{"1", "2", "10"}, []string{keys[1].MutantID, keys[2].MutantID, keys[3].MutantID})
}

func TestResultTree_JSONLayout(t *testing.T) {
	tree := NewResultTree()
	tree.Insert(ResultKey{Module: "pkg.calc", Name: "Calc.add", MutantID: "0"}, Outcome{
		Status: TimedOut,
		File:   "out/mutants/pkg.calc/Calc.add/0.py",
		Source: "src/pkg/calc.py",
		Output: "<timeout>",
	})

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	entry := doc["modules"]["pkg.calc"]["Calc.add"]["0"]
	assert.Equal(t, true, entry["caught"])
	assert.Equal(t, true, entry["timeout"])
	assert.Equal(t, false, entry["syntaxError"])
	assert.Equal(t, "src/pkg/calc.py", entry["source"])
	assert.NotContains(t, entry, "error")
}

func TestResultTree_JSONRoundTrip(t *testing.T) {
	tree := NewResultTree()
	outcomes := map[string]Outcome{
		"0": {Status: Caught, Output: "FAILED"},
		"1": {Status: Missed},
		"2": {Status: TimedOut},
		"3": {Status: SyntaxError, Output: "SyntaxError"},
		"4": {Status: Error, Err: "boom"},
	}

	for id, outcome := range outcomes {
		tree.Insert(ResultKey{Module: "m", Name: "f", MutantID: id}, outcome)
	}

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	decoded := NewResultTree()
	require.NoError(t, json.Unmarshal(data, decoded))
	require.Equal(t, len(outcomes), decoded.Len())

	for id, want := range outcomes {
		got, ok := decoded.Get(ResultKey{Module: "m", Name: "f", MutantID: id})
		require.True(t, ok, id)
		assert.Equal(t, want.Status, got.Status, id)
		assert.Equal(t, want.Err, got.Err, id)
	}
}

func TestResultTree_UnmarshalRequiresModules(t *testing.T) {
	tree := NewResultTree()

	err := json.Unmarshal([]byte(`{"other": {}}`), tree)
	assert.ErrorIs(t, err, ErrInvalidReport)
}

func TestProgress_Score(t *testing.T) {
	tests := []struct {
		name     string
		statuses []TestStatus
		want     float64
	}{
		{name: "empty", want: 0},
		{name: "all caught", statuses: []TestStatus{Caught, Caught}, want: 1},
		{name: "timeouts count as detected", statuses: []TestStatus{TimedOut, Missed}, want: 0.5},
		{name: "syntax errors excluded", statuses: []TestStatus{SyntaxError, Error, Missed, Caught}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Progress
			for _, s := range tt.statuses {
				p.Add(s)
			}

			assert.InDelta(t, tt.want, p.Score(), 1e-9)
			assert.Equal(t, len(tt.statuses), p.Completed)
		})
	}
}
