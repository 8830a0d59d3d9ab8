package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/spf13/cobra"
)

func (r *root) servicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "services [service-id]",
		Aliases: []string{"catalog"},
		Short:   "List the services on sale, or show one in detail",
		Args:    cobra.MaximumNArgs(1),
		RunE:    r.run(runServices),
	}
}

func runServices(cmd *cobra.Command, app *App, args []string) error {
	if len(args) == 1 {
		return runServiceDetail(cmd, app, args[0])
	}
	services, err := app.Cart.Services(cmd.Context())
	if err != nil {
		return err
	}
	if len(services) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Aucun service disponible.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tCATÉGORIE\tPRIX\tDURÉE")
	for _, s := range services {
		duration := "-"
		if s.Duration != nil {
			duration = catalog.FormatDuration(*s.Duration)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Category, catalog.DisplayPrice(s), duration)
		for _, o := range s.Options {
			fmt.Fprintf(w, "\t  + %s\t\t+%s€\t\n", o.Name, strconv.FormatFloat(o.Price, 'f', -1, 64))
		}
	}
	return w.Flush()
}

// runServiceDetail reads the live record, not the cached catalog.
func runServiceDetail(cmd *cobra.Command, app *App, rawID string) error {
	id, err := parseServiceID(rawID)
	if err != nil {
		return err
	}
	s, err := app.Sink.GetService(cmd.Context(), id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: id %d", catalog.ErrServiceNotFound, id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "#%d %s (%s)\n", s.ID, s.Title, s.Category)
	fmt.Fprintf(out, "Prix: %s\n", catalog.DisplayPrice(*s))
	if s.Duration != nil {
		fmt.Fprintf(out, "Durée: %s\n", catalog.FormatDuration(*s.Duration))
	}
	if s.Description != "" {
		fmt.Fprintln(out, s.Description)
	}
	for _, f := range s.Features {
		fmt.Fprintf(out, "  ✓ %s\n", f)
	}
	for _, o := range s.Options {
		fmt.Fprintf(out, "  + %s (+%s€)\n", o.Name, strconv.FormatFloat(o.Price, 'f', -1, 64))
	}
	return nil
}
