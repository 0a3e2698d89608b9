package model

import "strings"

// Stats categories. Annotation counts use the "annotation:" prefix.
const (
	StatMutants     = "count:mutants"
	StatDropped     = "count:dropped"
	StatKept        = "count:kept"
	StatCaught      = "count:caught"
	StatMissed      = "count:missed"
	StatSyntaxError = "count:syntax_error"
	StatTimeout     = "count:timeout"
	StatError       = "count:error"

	AnnotationPrefix = "annotation:"
)

// CountCategories lists the fixed categories in display order.
var CountCategories = []string{
	StatMutants,
	StatDropped,
	StatKept,
	StatCaught,
	StatMissed,
	StatSyntaxError,
	StatTimeout,
	StatError,
}

// StatsGroup holds the counts of one group-by key.
type StatsGroup struct {
	Key    []string
	Counts map[string]int
}

// StatsTable is the result of aggregating the store and the report.
type StatsTable struct {
	GroupBy    []string
	Categories []string
	Groups     []StatsGroup
}

// CategoryLabel splits "section:name" into its parts.
func CategoryLabel(category string) (section, name string) {
	section, name, ok := strings.Cut(category, ":")
	if !ok {
		return "", category
	}

	return section, name
}
