// memoriesctl is a maintenance CLI over the local memories database. It
// drives the same store, search, and catalog code the app uses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapmemories/mapmemories/internal/config"
	"github.com/mapmemories/mapmemories/internal/logger"
	"github.com/mapmemories/mapmemories/internal/store"
	"github.com/mapmemories/mapmemories/internal/store/sqlite"
)

var (
	dbFlag  string
	rootCmd = &cobra.Command{
		Use:   "memoriesctl",
		Short: "Inspect and edit the local memories database",
	}
)

func openStore() (store.Store, *config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	log := logger.New("memoriesctl")
	return sqlite.New(cfg.DBPath, log), cfg, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database file (default: $MAPMEMORIES_DB_PATH or ~/.mapmemories/memories.db)")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newMediaCmd())
	rootCmd.AddCommand(newSongCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
