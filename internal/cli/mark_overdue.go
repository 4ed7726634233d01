package cli

import (
	"errors"
	"fmt"
	"time"

	"invoice_management/internal/bootstrap"

	"github.com/spf13/cobra"
)

type markOverdueOptions struct {
	ownerID string
	asOf    string
}

// NewMarkOverdueCommand creates the mark-overdue command.
func NewMarkOverdueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &markOverdueOptions{}

	cmd := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Move SENT invoices past their due date to OVERDUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ownerID == "" {
				return errors.New("--owner is required")
			}
			asOf, err := parseAsOf(opts.asOf, time.Now())
			if err != nil {
				return err
			}

			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Invoices.MarkOverdueInvoices(cmd.Context(), opts.ownerID, asOf)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, inv := range res.Marked {
				fmt.Fprintf(out, "%s\t%s\tdue %s\n", inv.InvoiceNumber, inv.Status, inv.DueDate.Format(time.DateOnly))
			}
			fmt.Fprintf(out, "marked %d, skipped %d\n", len(res.Marked), res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ownerID, "owner", "", "owner id whose invoices are checked")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "reference instant (RFC 3339 or YYYY-MM-DD), default now")

	return cmd
}

func parseAsOf(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q", raw)
	}
	return t.UTC(), nil
}
