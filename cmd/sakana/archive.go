package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sakanacore/internal/archive"
	"sakanacore/internal/blob"
	"sakanacore/internal/logging"
)

func (a *app) archiver(cmd *cobra.Command) (*archive.Archiver, error) {
	store, err := blob.Open(cmd.Context(), a.cfg.ArchiveOptions())
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return archive.New(store, archive.WithLogger(logging.Component(a.logger, "archive"))), nil
}

func newExportCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive the validation history as NDJSON to the configured blob store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			arc, err := a.archiver(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("prefix") {
				prefix = a.cfg.Archive.Prefix
			}
			art, err := arc.ExportHistory(cmd.Context(), prefix, h)
			if err != nil {
				return err
			}
			return a.writeJSON(art)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix for the export (default from config)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <key>",
		Short: "Append an archived NDJSON export to the validation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			arc, err := a.archiver(cmd)
			if err != nil {
				return err
			}
			n, err := arc.Restore(cmd.Context(), args[0], h)
			if err != nil {
				return err
			}
			return a.writeJSON(map[string]any{"key": args[0], "imported": n})
		},
	}
}
