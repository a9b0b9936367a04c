package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sakanacore/internal/enhance"
	"sakanacore/internal/logging"
)

// enhanced is one line of enhance output.
type enhanced struct {
	enhance.Report
	Revision string `json:"revision,omitempty"`
}

func newEnhanceCmd(a *app) *cobra.Command {
	var (
		level     string
		corpus    string
		reviseCmd string
		maxTokens int
	)
	cmd := &cobra.Command{
		Use:   "enhance [files...]",
		Short: "Validate records and combine the score with knowledge-lookup support",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			records, err := a.readRecords(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("corpus") {
				corpus = a.cfg.Enhancement.CorpusPath
			}
			opts := []enhance.Option{
				enhance.WithWeightTables(a.cfg.WeightTables()),
				enhance.WithTopK(a.cfg.Enhancement.TopK),
				enhance.WithLogger(logging.Component(a.logger, "enhance")),
			}
			if corpus != "" {
				lookup, err := loadLookup(corpus)
				if err != nil {
					return err
				}
				opts = append(opts, enhance.WithLookup(enhance.SourceLiterature, lookup))
			}
			enhancer := enhance.New(opts...)
			validator := a.newValidator(nil)

			var reviser *enhance.Reviser
			if reviseCmd != "" {
				gen, err := enhance.NewCommandGenerator(reviseCmd)
				if err != nil {
					return err
				}
				reviser = enhance.NewReviser(gen, maxTokens)
			}

			reports := make([]enhanced, 0, len(records))
			for _, rec := range records {
				res := validator.Validate(ctx, rec)
				report, err := enhancer.Enhance(ctx, res, rec, enhance.Level(level))
				if err != nil {
					return err
				}
				out := enhanced{Report: report}
				if reviser != nil {
					if out.Revision, err = reviser.Revise(ctx, rec, res); err != nil {
						return err
					}
				}
				reports = append(reports, out)
			}
			return a.writeJSON(reports)
		},
	}
	cmd.Flags().StringVar(&level, "level", string(enhance.LevelBasic), "weight table to apply")
	cmd.Flags().StringVar(&corpus, "corpus", "", "YAML snippet corpus used as the literature source")
	cmd.Flags().StringVar(&reviseCmd, "revise-cmd", "", "command that rewrites non-compliant records (prompt on stdin, text on stdout)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 1024, "token budget passed to the revise command")
	return cmd
}

func loadLookup(path string) (*enhance.KeywordLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()
	snippets, err := enhance.LoadCorpus(f)
	if err != nil {
		return nil, err
	}
	return enhance.NewKeywordLookup(snippets), nil
}
