package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"transfit-backend/internal/plans"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// PrintSection prints a section header
func PrintSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	_, _ = headerColor.Fprintf(w, "▸ %s\n", title)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

// PrintError prints an error message
func PrintError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

// PrintLabelValue prints a label-value pair
func PrintLabelValue(w io.Writer, label, value string) {
	_, _ = labelColor.Fprintf(w, "  %s: ", label)
	fmt.Fprintln(w, value)
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPlan(w io.Writer, plan plans.Plan) {
	PrintSection(w, fmt.Sprintf("Plan %s", plan.ID))
	PrintLabelValue(w, "Start", plan.StartDate)
	PrintLabelValue(w, "Weeks", fmt.Sprintf("%d", plan.BlockLength))
	PrintLabelValue(w, "Goals", strings.Join(plan.Goals, ", "))
	if plan.ConfigVersion != "" {
		PrintLabelValue(w, "Rules", plan.ConfigVersion)
	}

	for _, day := range plan.Days {
		PrintSection(w, fmt.Sprintf("Day %d  %s", day.DayNumber, day.Date))
		if len(day.Safety.Sources) > 0 {
			_, _ = dimColor.Fprintf(w, "  shaped by %s\n", strings.Join(day.Safety.Sources, ", "))
		}
		minutes := make([]int, 0, len(day.Variants))
		for m := range day.Variants {
			minutes = append(minutes, m)
		}
		sort.Ints(minutes)
		for _, m := range minutes {
			v := day.Variants[m]
			if v == nil {
				PrintWarning(w, fmt.Sprintf("%d min: no safe session", m))
				continue
			}
			_, _ = labelColor.Fprintf(w, "  %d min", m)
			fmt.Fprintf(w, " (~%d min)\n", (v.EstimatedSeconds+59)/60)
			for _, ex := range v.Exercises {
				fmt.Fprintf(w, "    • %s  %s\n", ex.ExerciseName, dose(ex.Sets, ex.Reps, ex.DurationSeconds))
				if ex.LoadNote != "" {
					_, _ = dimColor.Fprintf(w, "      %s\n", ex.LoadNote)
				}
			}
		}
	}

	if len(plan.Warnings) > 0 {
		PrintSection(w, "Warnings")
		for _, warn := range plan.Warnings {
			PrintWarning(w, warn.Message)
		}
	}
}

func dose(sets, reps, seconds int) string {
	if seconds > 0 {
		return fmt.Sprintf("%dx%ds", sets, seconds)
	}
	return fmt.Sprintf("%dx%d", sets, reps)
}
