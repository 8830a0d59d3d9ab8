package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	d "github.com/blunfr84/Webly/checkout-service/domain"
	"github.com/blunfr84/Webly/checkout-service/pkg/checkout"
	"github.com/spf13/cobra"
)

func (r *root) checkoutCmd() *cobra.Command {
	methods := make([]string, 0, len(d.PaymentMethods()))
	for _, m := range d.PaymentMethods() {
		methods = append(methods, string(m))
	}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Send the cart as an order or open a card payment",
		Args:  cobra.NoArgs,
		RunE:  r.run(runCheckout),
	}
	cmd.Flags().String("name", "", "Full name (required)")
	cmd.Flags().String("email", "", "E-mail address (required)")
	cmd.Flags().String("phone", "", "Phone number (required)")
	cmd.Flags().String("method", string(d.PaymentMethodCard), "Payment method: "+strings.Join(methods, ", "))
	cmd.Flags().String("message", "", "Describe your needs (required)")
	return cmd
}

func runCheckout(cmd *cobra.Command, app *App, _ []string) error {
	out := cmd.OutOrStdout()

	var opts []checkout.Option
	if app.Timeout > 0 {
		opts = append(opts, checkout.WithTimeout(app.Timeout))
	}
	svc := checkout.NewCheckoutService(app.Store, app.Sink, printRedirector{out: out}, app.Logger, opts...)

	open, err := svc.Open()
	if errors.Is(err, checkout.ErrEmptyCart) {
		fmt.Fprintln(out, "Votre panier est vide.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Commande de %d ligne(s), total %s€\n", len(open.Items), pricing.FormatFixed(open.Total))

	form := d.CheckoutForm{}
	form.Name, _ = cmd.Flags().GetString("name")
	form.Email, _ = cmd.Flags().GetString("email")
	form.Phone, _ = cmd.Flags().GetString("phone")
	method, _ := cmd.Flags().GetString("method")
	form.PaymentMethod = d.PaymentMethod(method)
	form.Message, _ = cmd.Flags().GetString("message")

	result, err := svc.Submit(cmd.Context(), form)
	var invalid *checkout.ValidationError
	if errors.As(err, &invalid) {
		return errors.New(invalid.Message)
	}
	if err != nil {
		return err
	}

	switch result.Status {
	case d.CheckoutStatusSucceeded:
		fmt.Fprintf(out, "Commande envoyée (message #%d). Nous vous recontactons pour le règlement par %s.\n",
			result.MessageID, form.Normalize().PaymentMethod.Label())
	case d.CheckoutStatusRedirected:
		fmt.Fprintln(out, "Finalisez le paiement sur la page sécurisée. Le panier reste disponible.")
	}
	return nil
}

// printRedirector hands the hosted payment page to the terminal user.
type printRedirector struct {
	out io.Writer
}

func (p printRedirector) Redirect(_ context.Context, session d.HostedSession) error {
	if session.URL == "" {
		return fmt.Errorf("no payment page url for session %s", session.SessionID)
	}
	_, err := fmt.Fprintf(p.out, "Paiement: ouvrez %s\n", session.URL)
	return err
}
