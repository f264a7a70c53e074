package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the flowfi client.
// It registers the stream and account command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "flowfi",
		Short: "Flowfi client commands",
	}
	root.AddCommand(NewStreamCommand(baseURL))
	root.AddCommand(NewAccountCommand(baseURL))
	return root
}
