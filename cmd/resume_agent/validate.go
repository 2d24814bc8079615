package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/observability"
	"github.com/jonathan/resume-intake/internal/parsing"
	"github.com/jonathan/resume-intake/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a structured résumé JSON file",
	Long: `Validate a StructuredResume JSON file against the built-in résumé schema and its invariants
(end dates not before start dates, non-empty skill buckets, well-formed email).
With --schema the file is checked against that JSON Schema instead.`,
	RunE: runValidate,
}

var (
	validateIn     string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateIn, "in", "i", "", "Path to JSON file (required)")
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to a JSON Schema file (optional)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateIn)
	} else {
		var data []byte
		data, err = os.ReadFile(validateIn)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		_, err = parsing.DecodeResume(string(data))
	}

	if err == nil {
		fmt.Fprintf(out, "Validation passed: %s\n", validateIn)
		return nil
	}

	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		observability.NewPrinter(out).PrintValidationErrors(verr)
		return fmt.Errorf("validation failed: %d problem(s) in %s", len(verr.Errors), validateIn)
	}
	return fmt.Errorf("validation failed: %w", err)
}
