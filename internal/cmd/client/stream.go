package client

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewStreamCommand constructs the `stream` command group and subcommands.
func NewStreamCommand(baseURL BaseURLFunc) *cobra.Command {
	streamCmd := &cobra.Command{Use: "stream", Short: "Payment stream operations"}

	streamCmd.AddCommand(
		newStreamCreateCommand(baseURL),
		newStreamTopUpCommand(baseURL),
		newStreamWithdrawCommand(baseURL),
		newStreamCancelCommand(baseURL),
		newStreamGetCommand(baseURL),
		newStreamEventsCommand(baseURL),
	)

	return streamCmd
}

func newStreamCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payment stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, _ := cmd.Flags().GetString("sender")
			recipient, _ := cmd.Flags().GetString("recipient")
			token, _ := cmd.Flags().GetString("token")
			amount, _ := cmd.Flags().GetInt64("amount")
			duration, _ := cmd.Flags().GetUint64("duration")
			idemKey, _ := cmd.Flags().GetString("idempotency-key")
			if idemKey == "" {
				idemKey = uuid.NewString()
			}

			var out struct {
				ID uint64 `json:"id"`
			}
			err := postJSON(cmd.Context(), baseURL, "/v1/streams/create", map[string]any{
				"sender":         sender,
				"recipient":      recipient,
				"token":          token,
				"amount":         amount,
				"duration":       duration,
				"idempotencyKey": idemKey,
			}, &out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id: %d\n", out.ID)
			return nil
		},
	}
	createCmd.Flags().String("sender", "", "Sender account")
	createCmd.Flags().String("recipient", "", "Recipient account")
	createCmd.Flags().String("token", "", "Token code")
	createCmd.Flags().Int64("amount", 0, "Deposit amount (smallest unit)")
	createCmd.Flags().Uint64("duration", 0, "Stream duration in seconds (0 = immediately claimable)")
	createCmd.Flags().String("idempotency-key", "", "Reuse a key to retry a previous create safely")
	_ = createCmd.MarkFlagRequired("sender")
	_ = createCmd.MarkFlagRequired("recipient")
	_ = createCmd.MarkFlagRequired("token")
	_ = createCmd.MarkFlagRequired("amount")
	return createCmd
}

func newStreamTopUpCommand(baseURL BaseURLFunc) *cobra.Command {
	topupCmd := &cobra.Command{
		Use:   "topup",
		Short: "Add deposit to an active stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, _ := cmd.Flags().GetString("sender")
			id, _ := cmd.Flags().GetUint64("id")
			amount, _ := cmd.Flags().GetInt64("amount")
			err := postJSON(cmd.Context(), baseURL, "/v1/streams/topup", map[string]any{
				"sender": sender,
				"id":     id,
				"amount": amount,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	topupCmd.Flags().String("sender", "", "Sender account")
	topupCmd.Flags().Uint64("id", 0, "Stream id")
	topupCmd.Flags().Int64("amount", 0, "Additional deposit (smallest unit)")
	_ = topupCmd.MarkFlagRequired("sender")
	_ = topupCmd.MarkFlagRequired("id")
	_ = topupCmd.MarkFlagRequired("amount")
	return topupCmd
}

func newStreamWithdrawCommand(baseURL BaseURLFunc) *cobra.Command {
	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Claim everything accrued so far",
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipient, _ := cmd.Flags().GetString("recipient")
			id, _ := cmd.Flags().GetUint64("id")
			err := postJSON(cmd.Context(), baseURL, "/v1/streams/withdraw", map[string]any{
				"recipient": recipient,
				"id":        id,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	withdrawCmd.Flags().String("recipient", "", "Recipient account")
	withdrawCmd.Flags().Uint64("id", 0, "Stream id")
	_ = withdrawCmd.MarkFlagRequired("recipient")
	_ = withdrawCmd.MarkFlagRequired("id")
	return withdrawCmd
}

func newStreamCancelCommand(baseURL BaseURLFunc) *cobra.Command {
	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Stop accrual on a stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, _ := cmd.Flags().GetString("sender")
			id, _ := cmd.Flags().GetUint64("id")
			err := postJSON(cmd.Context(), baseURL, "/v1/streams/cancel", map[string]any{
				"sender": sender,
				"id":     id,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cancelCmd.Flags().String("sender", "", "Sender account")
	cancelCmd.Flags().Uint64("id", 0, "Stream id")
	_ = cancelCmd.MarkFlagRequired("sender")
	_ = cancelCmd.MarkFlagRequired("id")
	return cancelCmd
}

func newStreamGetCommand(baseURL BaseURLFunc) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show a stream record and its claimable amount",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetUint64("id")
			var out map[string]any
			if err := getJSON(cmd.Context(), baseURL, "/v1/streams/get?id="+strconv.FormatUint(id, 10), &out); err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	getCmd.Flags().Uint64("id", 0, "Stream id")
	_ = getCmd.MarkFlagRequired("id")
	return getCmd
}

func newStreamEventsCommand(baseURL BaseURLFunc) *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Follow the lifecycle event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, _ := cmd.Flags().GetString("from")
			group, _ := cmd.Flags().GetString("group")
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")

			q := url.Values{}
			if from != "" {
				q.Set("from", from)
			}
			if group != "" {
				q.Set("group", group)
			}
			if filter != "" {
				q.Set("filter", filter)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, baseURL()+"/v1/streams/events?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %s", resp.Status)
			}

			sc := bufio.NewScanner(resp.Body)
			for sc.Scan() {
				fmt.Fprintln(cmd.OutOrStdout(), sc.Text())
			}
			return sc.Err()
		},
	}
	eventsCmd.Flags().String("from", "latest", "Start position: latest|earliest")
	eventsCmd.Flags().String("group", "", "Durable consumer group (resumes from its cursor)")
	eventsCmd.Flags().String("filter", "", "CEL filter (server-side)")
	eventsCmd.Flags().Int("limit", 0, "Stop after N events (0 = infinite)")
	return eventsCmd
}
