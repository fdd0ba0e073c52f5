package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	timeout time.Duration
}

func (o *options) client() *client {
	return newClient(o.baseURL, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "paytransfer-cli",
		Short:         "Paytransfer CLI tool",
		Long:          `A command line interface for interacting with the paytransfer API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the paytransfer API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newAccountCmd(opts), newTransferCmd(opts))

	return rootCmd
}

func newAccountCmd(opts *options) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var (
		id      int64
		balance string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an initial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}

			body := map[string]any{"account_id": id, "initial_balance": amount}
			if _, err := opts.client().do(cmd.Context(), "POST", "/api/v1/accounts", body, nil, nil); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %d created\n", id)
			return nil
		},
	}
	createCmd.Flags().Int64Var(&id, "id", 0, "Account ID")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Initial balance")
	createCmd.MarkFlagRequired("id")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseID(args[0]); err != nil {
				return err
			}

			var account map[string]any
			if _, err := opts.client().do(cmd.Context(), "GET", "/api/v1/accounts/"+args[0], nil, nil, &account); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	accountCmd.AddCommand(createCmd, getCmd)
	return accountCmd
}

func newTransferCmd(opts *options) *cobra.Command {
	transferCmd := &cobra.Command{
		Use:     "transfer",
		Aliases: []string{"transaction"},
		Short:   "Transfer operations",
	}

	var (
		from, to       int64
		amount         string
		idempotencyKey string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Move funds between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{"Idempotency-Key": idempotencyKey}
			}

			body := map[string]any{
				"source_account_id":      from,
				"destination_account_id": to,
				"amount":                 value,
			}

			var created map[string]any
			if _, err := opts.client().do(cmd.Context(), "POST", "/api/v1/transactions", body, headers, &created); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	createCmd.Flags().Int64Var(&from, "from", 0, "Source account ID")
	createCmd.Flags().Int64Var(&to, "to", 0, "Destination account ID")
	createCmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	createCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	createCmd.MarkFlagRequired("from")
	createCmd.MarkFlagRequired("to")
	createCmd.MarkFlagRequired("amount")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a recorded transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseID(args[0]); err != nil {
				return err
			}

			var transfer map[string]any
			if _, err := opts.client().do(cmd.Context(), "GET", "/api/v1/transactions/"+args[0], nil, nil, &transfer); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), transfer)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every recorded transfer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var transfers []transferRow
			if _, err := opts.client().do(cmd.Context(), "GET", "/api/v1/transactions", nil, nil, &transfers); err != nil {
				return err
			}

			printTransfers(cmd.OutOrStdout(), transfers)
			return nil
		},
	}

	transferCmd.AddCommand(createCmd, getCmd, listCmd)
	return transferCmd
}

type transferRow struct {
	ID                   int64       `json:"id"`
	SourceAccountID      int64       `json:"source_account_id"`
	DestinationAccountID int64       `json:"destination_account_id"`
	Amount               json.Number `json:"amount"`
	Timestamp            string      `json:"timestamp"`
}

func printTransfers(w io.Writer, transfers []transferRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFROM\tTO\tAMOUNT\tTIMESTAMP")
	for _, t := range transfers {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", t.ID, t.SourceAccountID, t.DestinationAccountID, t.Amount, truncate(t.Timestamp, 26))
	}
	tw.Flush()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
