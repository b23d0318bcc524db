package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaygrid/relaygrid/src/version"
)

// NewVersionCmd produces a VersionCmd which prints the version string.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	}
}

func init() {
	RootCmd.AddCommand(NewVersionCmd())
}
