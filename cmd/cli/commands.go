package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
)

func parseDecimalFlag(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return d, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func setQuery(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}

func setIntQuery(q url.Values, key string, val int) {
	if val > 0 {
		q.Set(key, strconv.Itoa(val))
	}
}

type transactionFlags struct {
	amount         string
	rate           string
	movement       string
	customer       string
	currency       string
	note           string
	idempotencyKey string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "Transaction amount")
	cmd.Flags().StringVar(&f.rate, "rate", "", "Commission rate as a fraction, e.g. 0.05")
	cmd.Flags().StringVar(&f.movement, "movement", "", "Movement, e.g. buy-cash or sell-check")
	cmd.Flags().StringVar(&f.customer, "customer", "", "Customer ID")
	cmd.Flags().StringVar(&f.currency, "currency", "", "Currency ID")
	cmd.Flags().StringVar(&f.note, "note", "", "Free-form note")
	cmd.Flags().StringVar(&f.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("movement")
	_ = cmd.MarkFlagRequired("currency")
}

func (f *transactionFlags) request() (*dto.TransactionRequest, error) {
	amount, err := parseDecimalFlag("amount", f.amount)
	if err != nil {
		return nil, err
	}
	rate, err := parseDecimalFlag("rate", f.rate)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionRequest{
		Amount:         amount,
		CommissionRate: rate,
		Note:           f.note,
		Movement:       f.movement,
		CustomerID:     optional(f.customer),
		CurrencyID:     f.currency,
	}, nil
}

func transactionCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Transaction operations",
	}

	var create transactionFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := create.request()
			if err != nil {
				return err
			}
			var resp dto.TransactionResponse
			err = c.do(cmd.Context(), http.MethodPost, "/transactions",
				requestOptions{body: req, idempotencyKey: create.idempotencyKey}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	create.register(createCmd)

	var update transactionFlags
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a transaction and re-apply its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := update.request()
			if err != nil {
				return err
			}
			var resp dto.TransactionResponse
			err = c.do(cmd.Context(), http.MethodPut, "/transactions/"+url.PathEscape(args[0]),
				requestOptions{body: req, idempotencyKey: update.idempotencyKey}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	update.register(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and revert its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.do(cmd.Context(), http.MethodDelete, "/transactions/"+url.PathEscape(args[0]), requestOptions{}, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransactionResponse
			if err := c.do(cmd.Context(), http.MethodGet, "/transactions/"+url.PathEscape(args[0]), requestOptions{}, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	var (
		customer, currency, movement, from, to string
		limit, offset                          int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setQuery(q, "customer_id", customer)
			setQuery(q, "currency_id", currency)
			setQuery(q, "movement", movement)
			setQuery(q, "from", from)
			setQuery(q, "to", to)
			setIntQuery(q, "limit", limit)
			setIntQuery(q, "offset", offset)

			var resp []*dto.TransactionResponse
			if err := c.do(cmd.Context(), http.MethodGet, "/transactions", requestOptions{query: q}, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	listCmd.Flags().StringVar(&customer, "customer", "", "Filter by customer ID")
	listCmd.Flags().StringVar(&currency, "currency", "", "Filter by currency ID")
	listCmd.Flags().StringVar(&movement, "movement", "", "Filter by movement")
	listCmd.Flags().StringVar(&from, "from", "", "Start of range (RFC3339 or YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "End of range (RFC3339 or YYYY-MM-DD)")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")

	cmd.AddCommand(createCmd, updateCmd, deleteCmd, getCmd, listCmd)
	return cmd
}

func balanceCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance operations",
	}

	var (
		owner, customer, currency, bucket, kind, amount, note, key string
	)
	adjustCmd := &cobra.Command{
		Use:   "adjust",
		Short: "Add to or remove from a single balance bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseDecimalFlag("amount", amount)
			if err != nil {
				return err
			}
			req := &dto.AdjustBalanceRequest{
				OwnerKind:      owner,
				CustomerID:     optional(customer),
				CurrencyID:     currency,
				BalanceType:    bucket,
				AdjustmentType: kind,
				Amount:         value,
				Note:           note,
			}
			var resp dto.AdjustBalanceResponse
			err = c.do(cmd.Context(), http.MethodPost, "/balances/adjust",
				requestOptions{body: req, idempotencyKey: key}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	adjustCmd.Flags().StringVar(&owner, "owner", "company", "Owner kind: company or client")
	adjustCmd.Flags().StringVar(&customer, "customer", "", "Customer ID for client balances")
	adjustCmd.Flags().StringVar(&currency, "currency", "", "Currency ID")
	adjustCmd.Flags().StringVar(&bucket, "bucket", "cash", "Balance bucket: cash or check")
	adjustCmd.Flags().StringVar(&kind, "type", "add", "Adjustment type: add or remove")
	adjustCmd.Flags().StringVar(&amount, "amount", "", "Adjustment amount")
	adjustCmd.Flags().StringVar(&note, "note", "", "Free-form note")
	adjustCmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key for safe retries")
	_ = adjustCmd.MarkFlagRequired("currency")
	_ = adjustCmd.MarkFlagRequired("amount")

	companyCmd := &cobra.Command{
		Use:   "company [currency_id]",
		Short: "Show company balances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var resp dto.BalanceResponse
				if err := c.do(cmd.Context(), http.MethodGet, "/balances/company/"+url.PathEscape(args[0]), requestOptions{}, &resp); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			}
			var resp []*dto.BalanceResponse
			if err := c.do(cmd.Context(), http.MethodGet, "/balances/company", requestOptions{}, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	customerCmd := &cobra.Command{
		Use:   "customer <customer_id>",
		Short: "Show a customer's balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp []*dto.BalanceResponse
			if err := c.do(cmd.Context(), http.MethodGet, "/customers/"+url.PathEscape(args[0])+"/balances", requestOptions{}, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.AddCommand(adjustCmd, companyCmd, customerCmd)
	return cmd
}

func earningsCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "earnings",
		Short: "Earning reports",
	}

	var groupBy, from, to string
	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Sum earnings by currency or type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setQuery(q, "group_by", groupBy)
			setQuery(q, "from", from)
			setQuery(q, "to", to)

			var resp any
			if err := c.do(cmd.Context(), http.MethodGet, "/earnings/totals", requestOptions{query: q}, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	totalsCmd.Flags().StringVar(&groupBy, "group-by", "currency", "Grouping: currency or type")
	totalsCmd.Flags().StringVar(&from, "from", "", "Start of range (RFC3339 or YYYY-MM-DD)")
	totalsCmd.Flags().StringVar(&to, "to", "", "End of range (RFC3339 or YYYY-MM-DD)")

	cmd.AddCommand(totalsCmd)
	return cmd
}

func ledgerCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Replay transactions and compare against stored balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationResponse
			if err := c.do(cmd.Context(), http.MethodGet, "/ledger/reconcile", requestOptions{}, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Consistent {
				fmt.Fprintf(out, "Reconciliation PASSED (%d transactions, %d balances)\n", resp.Transactions, resp.Balances)
				return nil
			}

			fmt.Fprintf(out, "Reconciliation FAILED: %d discrepancies\n", len(resp.Discrepancies))
			for _, d := range resp.Discrepancies {
				owner := string(d.OwnerKind)
				if d.CustomerID != "" {
					owner = d.CustomerID
				}
				fmt.Fprintf(out, "  %s %s %s: recorded %s, calculated %s (diff %s)\n",
					owner, d.CurrencyID, d.Bucket, d.Recorded, d.Calculated, d.Difference)
			}
			return fmt.Errorf("ledger is inconsistent")
		},
	}

	cmd.AddCommand(reconcileCmd)
	return cmd
}
