package client

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewStreamCommand constructs the `stream` command group and subcommands.
func NewStreamCommand(baseURL BaseURLFunc) *cobra.Command {
	streamCmd := &cobra.Command{Use: "stream", Short: "Stream operations"}

	streamCmd.AddCommand(
		newStreamIngestCommand(baseURL),
		newStreamConsumeCommand(baseURL),
		newStreamCompleteCommand(baseURL),
		newStreamStatusCommand(baseURL),
	)

	return streamCmd
}

// newStreamIngestCommand constructs the `stream ingest` subcommand.
func newStreamIngestCommand(baseURL BaseURLFunc) *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest NDJSON chunks from a file or stdin into a query stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, _ := cmd.Flags().GetString("query")
			file, _ := cmd.Flags().GetString("file")
			if query == "" {
				return fmt.Errorf("--query is required")
			}
			in := cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			resp, err := http.Post(baseURL()+"/stream/"+url.PathEscape(query), "application/x-ndjson", in)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return httpError(resp)
			}
			var out struct {
				Status         string `json:"status"`
				Query          string `json:"query"`
				ChunksReceived int    `json:"chunks_received"`
			}
			if err := decodeInto(resp, &out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s query=%s chunks=%d\n", out.Status, out.Query, out.ChunksReceived)
			return nil
		},
	}
	ingestCmd.Flags().StringP("query", "q", "", "Query id")
	ingestCmd.Flags().StringP("file", "f", "", "NDJSON file (default stdin)")
	return ingestCmd
}

// newStreamConsumeCommand constructs the `stream consume` subcommand.
func newStreamConsumeCommand(baseURL BaseURLFunc) *cobra.Command {
	consumeCmd := &cobra.Command{
		Use:   "consume",
		Short: "Consume a query stream as Server-Sent Events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, _ := cmd.Flags().GetString("query")
			fromBeginning, _ := cmd.Flags().GetBool("from-beginning")
			wait, _ := cmd.Flags().GetString("wait")
			maxChunk, _ := cmd.Flags().GetInt("max-chunk-size")
			filter, _ := cmd.Flags().GetString("filter")
			if query == "" {
				return fmt.Errorf("--query is required")
			}

			params := url.Values{}
			if fromBeginning {
				params.Set("from-beginning", "true")
			}
			if wait != "" {
				params.Set("wait-for-query", wait)
			}
			if maxChunk > 0 {
				params.Set("max-chunk-size", fmt.Sprintf("%d", maxChunk))
			}
			if filter != "" {
				params.Set("filter", filter)
			}
			u := baseURL() + "/stream/" + url.PathEscape(query)
			if len(params) > 0 {
				u += "?" + params.Encode()
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return httpError(resp)
			}

			done := color.New(color.FgGreen, color.Bold)
			out := cmd.OutOrStdout()
			return readSSE(resp.Body, func(frame string) error {
				if frame == "[DONE]" {
					_, _ = done.Fprintln(out, "[DONE]")
					return nil
				}
				_, _ = fmt.Fprintln(out, frame)
				return nil
			})
		},
	}
	consumeCmd.Flags().StringP("query", "q", "", "Query id")
	consumeCmd.Flags().Bool("from-beginning", false, "Replay buffered history before live chunks")
	consumeCmd.Flags().String("wait", "", "Close if no chunk arrives within this duration (e.g. 30s)")
	consumeCmd.Flags().Int("max-chunk-size", 0, "Max replayed delta content length (server default 50)")
	consumeCmd.Flags().String("filter", "", "CEL filter (server-side)")
	return consumeCmd
}

// newStreamCompleteCommand constructs the `stream complete` subcommand.
func newStreamCompleteCommand(baseURL BaseURLFunc) *cobra.Command {
	completeCmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a query complete",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, _ := cmd.Flags().GetString("query")
			if query == "" {
				return fmt.Errorf("--query is required")
			}
			var out struct {
				Status string `json:"status"`
				Query  string `json:"query"`
			}
			if err := postJSON(baseURL()+"/stream/"+url.PathEscape(query)+"/complete", nil, &out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s query=%s\n", out.Status, out.Query)
			return nil
		},
	}
	completeCmd.Flags().StringP("query", "q", "", "Query id")
	return completeCmd
}

// newStreamStatusCommand constructs the `stream status` subcommand.
func newStreamStatusCommand(baseURL BaseURLFunc) *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show a query's log status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, _ := cmd.Flags().GetString("query")
			if query == "" {
				return fmt.Errorf("--query is required")
			}
			var st struct {
				Query       string `json:"query"`
				Chunks      int    `json:"chunks"`
				Completed   bool   `json:"completed"`
				Subscribers int    `json:"subscribers"`
				Known       bool   `json:"known"`
			}
			if err := getJSON(baseURL()+"/stream/"+url.PathEscape(query)+"/status", &st); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "query=%s known=%v chunks=%d completed=%v subscribers=%d\n",
				st.Query, st.Known, st.Chunks, st.Completed, st.Subscribers)
			return nil
		},
	}
	statusCmd.Flags().StringP("query", "q", "", "Query id")
	return statusCmd
}
