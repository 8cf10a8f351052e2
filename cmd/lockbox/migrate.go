package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move legacy records into the data-protection keychain",
	Long: `Move every record written under the legacy storage generation into the
data-protection keychain. Safe to re-run: records that already exist under
the new generation are left alone, along with their legacy copies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.MigrateLegacyItems(); err != nil {
			return err
		}
		fmt.Println("Migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
