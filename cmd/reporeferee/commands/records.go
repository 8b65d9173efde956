package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reporeferee/reporeferee/internal/config"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/record"
)

var recordsAll bool

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List moderation records",
	Long: `List the moderation records tracked in the moderation repository,
newest first. By default only active records are shown; --all includes
expired tombstones.`,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(
		&recordsAll, "all", false,
		"Include expired records",
	)
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	gw := gateway.NewGitHubGateway(cfg.Owner, cfg.GitHubToken, nil)
	store := record.NewStore(gw, cfg.ModerationRepo, nil)

	var records []record.Record
	if recordsAll {
		records, err = store.ListAll(cmd.Context())
	} else {
		records, err = store.ListActive(cmd.Context())
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	for _, rec := range records {
		state := "closed"
		if rec.Open {
			state = "open"
		}
		fmt.Printf("#%-5d %-6s text=%d %s\n", rec.Number, state,
			rec.Meta.ToxicTextID, rec.Title)
	}

	return nil
}
