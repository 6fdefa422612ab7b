package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"shiptrack/pkg/logger"
)

func main() {
	defer logger.Sync()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shiptrack",
		Short:         "Project shipment tracking with logistics import reconciliation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db", "", "SQLite path (overrides DB_PATH)")
	root.AddCommand(
		newServeCmd(),
		newImportProjectsCmd(),
		newImportLogisticsCmd(),
		newPasteCmd(),
		newListCmd(),
	)
	return root
}
