package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewAccountCommand constructs the `account` command group.
func NewAccountCommand(baseURL BaseURLFunc) *cobra.Command {
	accountCmd := &cobra.Command{Use: "account", Short: "Token account operations"}
	accountCmd.AddCommand(
		newAccountMintCommand(baseURL),
		newAccountBalanceCommand(baseURL),
	)
	return accountCmd
}

func newAccountMintCommand(baseURL BaseURLFunc) *cobra.Command {
	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Credit tokens to an account (dev faucet)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, _ := cmd.Flags().GetString("token")
			account, _ := cmd.Flags().GetString("account")
			amount, _ := cmd.Flags().GetInt64("amount")
			err := postJSON(cmd.Context(), baseURL, "/v1/accounts/mint", map[string]any{
				"token":   token,
				"account": account,
				"amount":  amount,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	mintCmd.Flags().String("token", "", "Token code")
	mintCmd.Flags().String("account", "", "Account name")
	mintCmd.Flags().Int64("amount", 0, "Amount to credit (smallest unit)")
	_ = mintCmd.MarkFlagRequired("token")
	_ = mintCmd.MarkFlagRequired("account")
	_ = mintCmd.MarkFlagRequired("amount")
	return mintCmd
}

func newAccountBalanceCommand(baseURL BaseURLFunc) *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, _ := cmd.Flags().GetString("token")
			account, _ := cmd.Flags().GetString("account")
			q := url.Values{}
			q.Set("token", token)
			q.Set("account", account)
			var out map[string]any
			if err := getJSON(cmd.Context(), baseURL, "/v1/accounts/balance?"+q.Encode(), &out); err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	balanceCmd.Flags().String("token", "", "Token code")
	balanceCmd.Flags().String("account", "", "Account name")
	_ = balanceCmd.MarkFlagRequired("token")
	_ = balanceCmd.MarkFlagRequired("account")
	return balanceCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
