package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sakanacore/internal/core"
	"sakanacore/pkg/domain"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [domain]",
		Short: "Print the constraint catalog, or one domain's entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			catalog := core.DefaultCatalog()
			if len(args) == 0 {
				return a.writeJSON(catalog.Entries())
			}
			d, ok := domain.ParseDomain(args[0])
			if !ok {
				return fmt.Errorf("unknown domain %q", args[0])
			}
			entry, ok := catalog.Entry(d)
			if !ok {
				return fmt.Errorf("no catalog entry for %s", d)
			}
			return a.writeJSON(entry)
		},
	}
}
