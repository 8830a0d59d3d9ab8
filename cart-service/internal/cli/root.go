package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	"github.com/spf13/cobra"
)

type runFunc func(cmd *cobra.Command, app *App, args []string) error

type root struct {
	newApp AppFactory
}

// NewRootCmd builds the webly command tree.
func NewRootCmd(newApp AppFactory) *cobra.Command {
	r := &root{newApp: newApp}

	cmd := &cobra.Command{
		Use:   "webly",
		Short: "Webly storefront",
		Long: `webly browses the Webly service catalog, keeps a local shopping cart and
checks it out, either as an order message or through a card payment page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(r.servicesCmd())
	cmd.AddCommand(r.cartCmd())
	cmd.AddCommand(r.checkoutCmd())
	return cmd
}

// Execute runs the command line and prints the error, if any, to stderr.
func Execute(ctx context.Context, newApp AppFactory) error {
	cmd := NewRootCmd(newApp)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		return err
	}
	return nil
}

// run opens the App for one command and reports every persisted cart change.
func (r *root) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := r.newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		unsubscribe := app.Store.Subscribe(cartBadge(cmd.OutOrStdout()))
		defer unsubscribe()

		return fn(cmd, app, args)
	}
}

func cartBadge(out io.Writer) cart.Observer {
	return func(s *cart.Store) {
		fmt.Fprintf(out, "Panier: %d article(s), total %s€\n", s.ItemCount(), pricing.FormatFixed(pricing.CartTotal(s.Items())))
	}
}
