package generator

import "bytes"

// ProvenanceStats computes line metrics of a mutant against its source:
// loc, mutantLoc, dloc (difference) and locFrac (ratio).
func ProvenanceStats(source, mutant []byte) map[string]float64 {
	loc := lines(source)
	mutantLoc := lines(mutant)

	stats := map[string]float64{
		"loc":       float64(loc),
		"mutantLoc": float64(mutantLoc),
		"dloc":      float64(mutantLoc - loc),
		"locFrac":   0,
	}

	if loc > 0 {
		stats["locFrac"] = float64(mutantLoc) / float64(loc)
	}

	return stats
}

// lines counts lines the way a line splitter does: a trailing newline does
// not start a new line.
func lines(content []byte) int {
	if len(content) == 0 {
		return 0
	}

	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}

	return n
}
