package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewMessagesCommand constructs the `messages` command group.
func NewMessagesCommand(baseURL BaseURLFunc) *cobra.Command {
	messagesCmd := &cobra.Command{Use: "messages", Short: "Session message records"}
	messagesCmd.AddCommand(
		newMessagesAddCommand(baseURL),
		newMessagesListCommand(baseURL),
	)
	return messagesCmd
}

// newMessagesAddCommand constructs the `messages add` subcommand.
func newMessagesAddCommand(baseURL BaseURLFunc) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record messages under a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			query, _ := cmd.Flags().GetString("query")
			msgs, _ := cmd.Flags().GetStringArray("message")
			if session == "" {
				return fmt.Errorf("--session is required")
			}
			if len(msgs) == 0 {
				return fmt.Errorf("at least one --message is required")
			}
			raw := make([]json.RawMessage, 0, len(msgs))
			for _, m := range msgs {
				if !json.Valid([]byte(m)) {
					return fmt.Errorf("message is not valid JSON: %s", m)
				}
				raw = append(raw, json.RawMessage(m))
			}
			body := map[string]any{"session_id": session, "query_id": query, "messages": raw}
			var out struct {
				Status string `json:"status"`
				Count  int    `json:"count"`
			}
			if err := postJSON(baseURL()+"/messages", body, &out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s count=%d\n", out.Status, out.Count)
			return nil
		},
	}
	addCmd.Flags().StringP("session", "s", "", "Session id")
	addCmd.Flags().StringP("query", "q", "", "Query id (optional)")
	addCmd.Flags().StringArrayP("message", "m", nil, "Message JSON (repeatable)")
	return addCmd
}

// newMessagesListCommand constructs the `messages list` subcommand.
func newMessagesListCommand(baseURL BaseURLFunc) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			query, _ := cmd.Flags().GetString("query")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			params := url.Values{}
			if session != "" {
				params.Set("session_id", session)
			}
			if query != "" {
				params.Set("query_id", query)
			}
			if limit > 0 {
				params.Set("limit", fmt.Sprintf("%d", limit))
			}
			if offset > 0 {
				params.Set("offset", fmt.Sprintf("%d", offset))
			}
			u := baseURL() + "/messages"
			if len(params) > 0 {
				u += "?" + params.Encode()
			}
			var resp struct {
				Messages []json.RawMessage `json:"messages"`
				Total    int               `json:"total"`
				Limit    int               `json:"limit"`
				Offset   int               `json:"offset"`
			}
			if err := getJSON(u, &resp); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, m := range resp.Messages {
				_ = enc.Encode(m)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total=%d limit=%d offset=%d\n", resp.Total, resp.Limit, resp.Offset)
			return nil
		},
	}
	listCmd.Flags().StringP("session", "s", "", "Session id")
	listCmd.Flags().StringP("query", "q", "", "Query id filter")
	listCmd.Flags().Int("limit", 0, "Page size (server default)")
	listCmd.Flags().Int("offset", 0, "Page offset")
	return listCmd
}
