package commands

import (
	"fmt"

	"github.com/reporeferee/reporeferee/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("reporeferee version %s", build.Version())
	if build.Commit != "" {
		fmt.Printf(" commit=%s", build.Commit)
	}
	fmt.Println()
}
