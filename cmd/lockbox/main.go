package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/benaskins/lockbox"
	"github.com/benaskins/lockbox/internal/audit"
	"github.com/benaskins/lockbox/internal/config"
	"github.com/benaskins/lockbox/secstore"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lockbox",
	Short: "Credential storage backed by the platform secure store",
}

var (
	flagService     string
	flagAccessGroup string
	flagAudit       bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagService, "service", "", "service the operation is scoped to")
	rootCmd.PersistentFlags().StringVar(&flagAccessGroup, "access-group", "", "access group shared with cooperating processes")
	rootCmd.PersistentFlags().BoolVar(&flagAudit, "audit", false, "record the operation to the audit log")
}

// openStore applies the config file and flags to the process defaults and
// returns a store on the platform client, audited when asked for.
func openStore() (*lockbox.Store, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	accessibility := lockbox.AccessibleWhenUnlocked
	if cfg.Accessibility != "" {
		accessibility, err = lockbox.ParseAccessibility(cfg.Accessibility)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	service := cfg.Service
	if flagService != "" {
		service = flagService
	}
	group := cfg.AccessGroup
	if flagAccessGroup != "" {
		group = flagAccessGroup
	}
	lockbox.Configure(service, group, accessibility)

	client := secstore.DefaultClient()
	if flagAudit || cfg.AuditLog != "" {
		path := cfg.AuditLog
		if path == "" {
			path = defaultAuditPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating audit log directory: %w", err)
		}
		logger, err := audit.NewLogger(path)
		if err != nil {
			return nil, err
		}
		client = secstore.NewAuditedClient(client, logger, "cli")
	}
	return lockbox.New(client), nil
}

func defaultAuditPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lockbox-audit.log"
	}
	return filepath.Join(home, ".lockbox", "audit.log")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
