package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sakanacore/internal/archive"
	"sakanacore/internal/core"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		ndjson          bool
		failOnViolation bool
		noHistory       bool
	)
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate records from JSON, NDJSON or YAML files (stdin when none)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			records, err := a.readRecords(args)
			if err != nil {
				return err
			}
			var h *core.History
			if !noHistory {
				if h, err = a.openHistory(ctx); err != nil {
					return err
				}
			}
			results, err := a.newValidator(h).ValidateBatch(ctx, records, a.cfg.Validation.Parallelism)
			if err != nil {
				return err
			}

			if ndjson {
				err = archive.WriteNDJSON(a.stdout, results)
			} else {
				err = a.writeJSON(results)
			}
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if !res.Compliant {
					failed++
				}
			}
			a.logger.Info("validation finished", zap.Int("records", len(results)), zap.Int("non_compliant", failed))
			if failOnViolation && failed > 0 {
				_, _ = fmt.Fprintf(a.stderr, "%d of %d records non-compliant\n", failed, len(results))
				return errNonCompliant
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "print one result per line")
	cmd.Flags().BoolVar(&failOnViolation, "fail-on-violation", false, "exit 1 when any record is non-compliant")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not append results to the history store")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print validation history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			return a.writeJSON(h.Stats())
		},
	}
}
