package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gritdb/gritdb/cmd/start"
	"github.com/gritdb/gritdb/utils"
	"github.com/gritdb/gritdb/utils/log"
)

// flagPrintVersion set flag to show the current gritdb version.
var flagPrintVersion bool

// Execute builds the command tree and executes commands.
func Execute() error {
	// c is the root command.
	c := &cobra.Command{
		Use: "gritdb",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagPrintVersion {
				log.Info("version: %v", utils.Version)
				log.Info("commit hash: %v", utils.GitHash)
				log.Info("utc build time: %v", utils.BuildStamp)
				return nil
			}
			return cmd.Usage()
		},
	}

	c.AddCommand(start.Cmd)
	c.Flags().BoolVarP(&flagPrintVersion, "version", "v", false, "show the version info and exit")

	return c.Execute()
}
