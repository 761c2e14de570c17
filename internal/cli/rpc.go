package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	rpcURL     string
	rpcTimeout time.Duration
)

// rpcCmd calls a method on a running node over JSON-RPC
var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [json-params]",
	Short: "Call a JSON-RPC method on a running node",
	Example: `  carbond rpc server_info
  carbond rpc get_credit_balance '{"account":"c..."}'
  carbond rpc issue_credits '{"account":"c...","amount":1000,"project_label":"Solar"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params json.RawMessage
		if len(args) == 2 {
			params = json.RawMessage(args[1])
			if !json.Valid(params) {
				return fmt.Errorf("params are not valid JSON")
			}
		}
		return callAndPrint(cmd, args[0], params)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Get the credit balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, "get_credit_balance", mustJSON(map[string]string{"account": args[0]}))
	},
}

var retiredCmd = &cobra.Command{
	Use:   "retired",
	Short: "Get the total of retired credits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, "get_total_credits_retired", nil)
	},
}

var issuerCmd = &cobra.Command{
	Use:   "issuer <issuer>",
	Short: "Get the issuance record of an issuer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, "get_issuer_data", mustJSON(map[string]string{"issuer": args[0]}))
	},
}

var priceCmd = &cobra.Command{
	Use:   "price <issuer>",
	Short: "Get the credit price of an issuer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, "get_credit_price", mustJSON(map[string]string{"issuer": args[0]}))
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Close the open ledger (standalone, admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, "ledger_accept", nil)
	},
}

func init() {
	rpcCmd.PersistentFlags().StringVar(&rpcURL, "url", "http://127.0.0.1:5005/", "JSON-RPC endpoint")
	rpcCmd.PersistentFlags().DurationVar(&rpcTimeout, "timeout", 30*time.Second, "request timeout")
	rpcCmd.AddCommand(balanceCmd, retiredCmd, issuerCmd, priceCmd, acceptCmd)
	rootCmd.AddCommand(rpcCmd)
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// callAndPrint posts {"method", "params": [params]} and prints the result.
// An error status from the node becomes the command's error.
func callAndPrint(cmd *cobra.Command, method string, params json.RawMessage) error {
	body := map[string]interface{}{"method": method}
	if len(params) > 0 {
		body["params"] = []json.RawMessage{params}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: rpcTimeout}
	resp, err := client.Post(rpcURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var decoded struct {
		Result map[string]interface{} `json:"result"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.Result == nil {
		return fmt.Errorf("unexpected response (HTTP %d): %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	pretty, err := json.MarshalIndent(decoded.Result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	if decoded.Result["status"] == "error" {
		return fmt.Errorf("%v: %v", decoded.Result["error"], decoded.Result["error_message"])
	}
	return nil
}
