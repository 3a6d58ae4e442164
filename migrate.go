package main

import (
	"blogapi/config"
	"blogapi/store"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// migrateCmd applies the SQLite schema without loading the rest of the
// configuration, so it can run before any secret is provisioned.
func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQLite schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, _ := cmd.Flags().GetString("dsn")
			if dsn == "" {
				dsn = os.Getenv("SQLITE_DSN")
			}
			if dsn == "" {
				dsn = config.DefaultSQLiteDSN
			}
			db, err := store.OpenSQLite(dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			log.WithField("dsn", dsn).Info("Running database schema migrations...")
			return db.Migrate()
		},
	}
	cmd.Flags().String("dsn", "", "SQLite data source name (defaults to $SQLITE_DSN)")
	return cmd
}
