package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the relay client.
// It registers the stream and messages command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "relay",
		Short: "Relay client commands",
	}
	root.AddCommand(NewStreamCommand(baseURL))
	root.AddCommand(NewMessagesCommand(baseURL))
	return root
}
