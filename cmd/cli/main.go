package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const idempotencyKeyHeader = "Idempotency-Key"

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gotransfer-cli",
		Short:         "GoTransfer CLI tool",
		Long:          `A command line interface for interacting with the GoTransfer API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoTransfer API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountsCmd(), transferCmd(), ledgerCmd())
	return rootCmd
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var (
		id      string
		balance string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an opening balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}
			body := map[string]any{"accountId": id, "balance": json.Number(amount.String())}
			return call(cmd, http.MethodPost, "/v1/accounts", body, nil)
		},
	}
	createCmd.Flags().StringVar(&id, "id", "", "Account ID")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Opening balance")
	_ = createCmd.MarkFlagRequired("id")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, "/v1/accounts/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodDelete, "/v1/accounts", nil, nil)
		},
	}

	cmd.AddCommand(createCmd, getCmd, clearCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	var (
		from           string
		to             string
		amount         string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer money between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			headers := map[string]string{}
			if idempotencyKey != "" {
				headers[idempotencyKeyHeader] = idempotencyKey
			}

			body := map[string]any{"accountFrom": from, "accountTo": to, "value": json.Number(value.String())}
			return call(cmd, http.MethodPost, "/v1/accounts/transference", body, headers)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source account ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := call(cmd, http.MethodGet, "/v1/ledger/consistency", nil, nil); err != nil {
				return fmt.Errorf("consistency check FAILED: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return nil
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

// call sends a JSON request, prints the response body and fails on any
// non-2xx status.
func call(cmd *cobra.Command, method, path string, body any, headers map[string]string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(bytes.TrimSpace(respBody)) > 0 {
		printJSON(out, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNoContent {
		fmt.Fprintln(out, "OK")
	}

	return nil
}

// printJSON pretty-prints raw JSON, falling back to the raw bytes.
func printJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		fmt.Fprintln(w, string(raw))
		return
	}
	fmt.Fprintln(w, buf.String())
}
