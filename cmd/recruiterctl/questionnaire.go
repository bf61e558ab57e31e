package main

import (
	"fmt"
	"io"
	"os"

	"recruiter-platform/internal/questionnaire"

	"github.com/spf13/cobra"
)

var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire",
	Short: "Questionnaire workbook tools",
}

var questionnaireCheckCmd = &cobra.Command{
	Use:   "check <file.xlsx>",
	Short: "Validate an import workbook without touching the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkWorkbook(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	questionnaireCmd.AddCommand(questionnaireCheckCmd)
	rootCmd.AddCommand(questionnaireCmd)
}

// checkWorkbook prints one line per row error, or a summary of the planned
// changes. Row errors make it return an error so the exit code is non-zero.
func checkWorkbook(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	plan, rowErrs, err := questionnaire.Parse(f)
	if err != nil {
		return err
	}
	if len(rowErrs) > 0 {
		for _, e := range rowErrs {
			fmt.Fprintf(w, "row %d: %s\n", e.Row, e.Message)
		}
		return fmt.Errorf("%d invalid row(s)", len(rowErrs))
	}

	for _, ch := range plan.Changes {
		questions := 0
		for _, s := range ch.Sections {
			questions += len(s.Questions)
		}
		fmt.Fprintf(w, "%s %s: %d section(s), %d question(s)\n", ch.Scope, ch.TemplateName, len(ch.Sections), questions)
	}
	return nil
}
