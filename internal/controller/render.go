package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

const allGroup = "all"

// jobLabel names a job the way the selector matches it.
func jobLabel(job m.Job) string {
	return fmt.Sprintf("%s:%s#%s", job.Key.Module, job.Key.Name, job.Key.MutantID)
}

func renderGenerationTable(summary m.GenerationSummary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Target", "Kept", "Dropped", "Rejected"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, target := range summary.Targets {
		table.Append([]string{
			target.Module + ":" + target.QualifiedName,
			strconv.Itoa(target.Kept),
			strconv.Itoa(target.Dropped),
			strconv.Itoa(target.Rejected),
		})
	}

	kept, dropped, rejected := summary.Totals()
	table.SetFooter([]string{
		fmt.Sprintf("Total Targets %d", len(summary.Targets)),
		strconv.Itoa(kept),
		strconv.Itoa(dropped),
		strconv.Itoa(rejected),
	})

	table.Render()

	return buf.String()
}

// statsHeader names group-by columns followed by the categories. Count
// categories drop their section prefix.
func statsHeader(stats m.StatsTable, short bool) []string {
	header := make([]string, 0, len(stats.GroupBy)+len(stats.Categories))

	if len(stats.GroupBy) == 0 {
		header = append(header, "group")
	}

	header = append(header, stats.GroupBy...)

	for _, category := range stats.Categories {
		section, name := m.CategoryLabel(category)
		if short && section == "count" {
			header = append(header, name)
		} else {
			header = append(header, category)
		}
	}

	return header
}

func statsRows(stats m.StatsTable) [][]string {
	rows := make([][]string, 0, len(stats.Groups))

	for _, group := range stats.Groups {
		row := make([]string, 0, len(group.Key)+len(stats.Categories)+1)

		if len(stats.GroupBy) == 0 {
			row = append(row, allGroup)
		}

		row = append(row, group.Key...)

		for _, category := range stats.Categories {
			row = append(row, strconv.Itoa(group.Counts[category]))
		}

		rows = append(rows, row)
	}

	return rows
}

func renderStatsTable(stats m.StatsTable) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(statsHeader(stats, true))
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")

	alignment := make([]int, 0, len(stats.GroupBy)+len(stats.Categories)+1)
	for range max(len(stats.GroupBy), 1) {
		alignment = append(alignment, tablewriter.ALIGN_LEFT)
	}

	for range stats.Categories {
		alignment = append(alignment, tablewriter.ALIGN_RIGHT)
	}

	table.SetColumnAlignment(alignment)
	table.AppendBulk(statsRows(stats))
	table.Render()

	return buf.String()
}

func writeStatsCSV(w io.Writer, stats m.StatsTable) error {
	out := csv.NewWriter(w)

	if err := out.Write(statsHeader(stats, false)); err != nil {
		return err
	}

	if err := out.WriteAll(statsRows(stats)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}

func writeStats(w io.Writer, stats m.StatsTable, format StatsFormat) error {
	switch format {
	case StatsCSV:
		return writeStatsCSV(w, stats)
	case StatsTable, "":
		_, err := io.WriteString(w, renderStatsTable(stats))
		return err
	default:
		return fmt.Errorf("unknown stats format %q", format)
	}
}

func scoreLine(progress m.Progress) string {
	return fmt.Sprintf(
		"Mutation score: %.2f%% (caught %d, missed %d, timeout %d, syntax error %d, error %d)",
		progress.Score()*100,
		progress.Caught,
		progress.Missed,
		progress.TimedOut,
		progress.SyntaxErrors,
		progress.Errors,
	)
}
