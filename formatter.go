package bridge

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/conformd/sdk-bridge/types"
)

// printResultsTable renders the run results to the console: suites, their
// cases, and each case's step list.
func printResultsTable(result *types.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Certification Test Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Cases", "Passed", "Failed", "Skipped", "Status", "Error",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Cases", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, suite := range result.Suites {
		t.AppendRow(table.Row{
			"Suite",
			fmt.Sprintf("%s (%s)", suite.Name, suite.Version),
			formatDuration(suite.Duration),
			"-",
			suite.Stats.Passed,
			suite.Stats.Failed,
			suite.Stats.Skipped,
			getResultString(suite.Status),
			"",
		})

		for i, c := range suite.Cases {
			prefix := "├──"
			if i == len(suite.Cases)-1 {
				prefix = "└──"
			}

			errMsg := ""
			if c.Error != nil {
				errMsg = c.Error.Error()
			} else if c.Exception != "" {
				errMsg = c.Exception
			}

			t.AppendRow(table.Row{
				"Case",
				fmt.Sprintf("%s %s", prefix, c.Case.Identifier),
				formatDuration(c.Duration),
				"1",
				boolToInt(c.Status == types.CaseStatusPass),
				boolToInt(c.Status == types.CaseStatusFail),
				boolToInt(c.Status == types.CaseStatusSkip),
				getResultString(c.Status),
				errMsg,
			})

			for j, step := range c.Steps {
				stepPrefix := "│   ├──"
				if j == len(c.Steps)-1 {
					stepPrefix = "│   └──"
				}
				t.AppendRow(table.Row{
					"",
					fmt.Sprintf("%s %s", stepPrefix, step.Label),
					"",
					"",
					"",
					"",
					"",
					getStepString(step.Status),
					step.Reason,
				})
			}
		}

		t.AppendSeparator()
	}

	if result.Status == types.CaseStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else if result.Status == types.CaseStatusSkip {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(result.Duration),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		result.Stats.Skipped,
		getResultString(result.Status),
		"",
	})

	t.Render()
}

// Helper function to convert bool to int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// getResultString returns a short string representing the case result
func getResultString(status types.CaseStatus) string {
	switch status {
	case types.CaseStatusPass:
		return "✓ pass"
	case types.CaseStatusSkip:
		return "- skip"
	default:
		return "✗ fail"
	}
}

// getStepString returns a short string representing a step status
func getStepString(status types.StepStatus) string {
	switch status {
	case types.StepStatusCompleted:
		return "✓ done"
	case types.StepStatusNotApplicable:
		return "- n/a"
	case types.StepStatusFailed:
		return "✗ failed"
	default:
		return "… pending"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
