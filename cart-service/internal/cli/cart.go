package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	"github.com/spf13/cobra"
)

func (r *root) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or edit the shopping cart",
		Args:  cobra.NoArgs,
		RunE:  r.run(runCartShow),
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart lines and total",
		Args:  cobra.NoArgs,
		RunE:  r.run(runCartShow),
	}

	add := &cobra.Command{
		Use:   "add <service-id>",
		Short: "Add a service to the cart",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(runCartAdd),
	}
	add.Flags().StringP("qty", "q", "1", "Quantity")
	add.Flags().StringArrayP("option", "o", nil, "Option as name=qty, repeatable")

	remove := &cobra.Command{
		Use:     "remove <service-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE:    r.run(runCartRemove),
	}

	qty := &cobra.Command{
		Use:   "qty <service-id> <quantity>",
		Short: "Set the quantity of a line",
		Args:  cobra.ExactArgs(2),
		RunE:  r.run(runCartQuantity),
	}

	options := &cobra.Command{
		Use:   "options <service-id> [name=qty ...]",
		Short: "Replace the options of a line; no pairs clears them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.run(runCartOptions),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE:  r.run(runCartClear),
	}

	cmd.AddCommand(show, add, remove, qty, options, clearCmd)
	return cmd
}

func runCartShow(cmd *cobra.Command, app *App, _ []string) error {
	out := cmd.OutOrStdout()
	sum := app.Cart.Summary()
	if len(sum.Lines) == 0 {
		fmt.Fprintln(out, "Votre panier est vide.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, line := range sum.Lines {
		it := line.Item
		fmt.Fprintf(w, "#%d\t%s\t× %d\t%s€\n", it.ServiceID, it.Service.Title, it.Quantity, pricing.FormatFixed(line.LineTotal))
		for _, name := range it.SelectedOptions.Names() {
			if q := it.SelectedOptions.Quantity(name); q > 0 {
				fmt.Fprintf(w, "\t  + %s\t× %d\t\n", name, q)
			}
		}
	}
	fmt.Fprintf(w, "\tTOTAL\t%d article(s)\t%s€\n", sum.Count, pricing.FormatFixed(sum.Total))
	return w.Flush()
}

func runCartAdd(cmd *cobra.Command, app *App, args []string) error {
	id, err := parseServiceID(args[0])
	if err != nil {
		return err
	}
	rawQty, _ := cmd.Flags().GetString("qty")
	pairs, _ := cmd.Flags().GetStringArray("option")
	options, err := cart.ParseSelectedOptionArgs(pairs)
	if err != nil {
		return err
	}

	item, err := app.Cart.AddItem(cmd.Context(), id, cart.ParseQuantity(rawQty), options)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ajouté au panier (quantité %d).\n", item.Service.Title, item.Quantity)
	return nil
}

func runCartRemove(cmd *cobra.Command, app *App, args []string) error {
	id, err := parseServiceID(args[0])
	if err != nil {
		return err
	}
	return app.Cart.RemoveItem(cmd.Context(), id)
}

func runCartQuantity(cmd *cobra.Command, app *App, args []string) error {
	id, err := parseServiceID(args[0])
	if err != nil {
		return err
	}
	_, err = app.Cart.UpdateQuantity(cmd.Context(), id, cart.ParseQuantity(args[1]))
	return err
}

func runCartOptions(cmd *cobra.Command, app *App, args []string) error {
	id, err := parseServiceID(args[0])
	if err != nil {
		return err
	}
	options, err := cart.ParseSelectedOptionArgs(args[1:])
	if err != nil {
		return err
	}
	_, err = app.Cart.SetOptions(cmd.Context(), id, options)
	return err
}

func runCartClear(cmd *cobra.Command, app *App, _ []string) error {
	app.Cart.Clear(cmd.Context())
	return nil
}

func parseServiceID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("identifiant de service invalide: %q", raw)
	}
	return id, nil
}
