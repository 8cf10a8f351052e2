package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/benaskins/lockbox/secstore"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var flagInsertOnly bool

var setCmd = &cobra.Command{
	Use:   "set <account> [value]",
	Short: "Store a credential",
	Long:  "Store a credential. If value is omitted, reads from stdin (useful for piping).",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]

		var value string
		if len(args) == 2 {
			value = args[1]
		} else {
			// Read from stdin
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Print("Enter credential value: ")
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					return fmt.Errorf("reading value: %w", err)
				}
				fmt.Println()
				value = string(b)
			} else {
				b, err := os.ReadFile("/dev/stdin")
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				value = strings.TrimRight(string(b), "\n")
			}
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		if flagInsertOnly {
			inserted, err := store.AddData(account, []byte(value))
			if err != nil {
				return err
			}
			if !inserted {
				return fmt.Errorf("account %q already exists", account)
			}
		} else if err := store.SetData(account, []byte(value)); err != nil {
			return err
		}
		fmt.Printf("Credential %q stored\n", account)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <account>",
	Short: "Retrieve a credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		data, err := store.GetData(args[0])
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("account %q not found", args[0])
		}
		fmt.Println(string(data))
		return nil
	},
}

var flagLong bool

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all accounts in the scope",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if flagLong {
			attrs, err := store.Attributes()
			if err != nil {
				return err
			}
			if len(attrs) == 0 {
				fmt.Println("No credentials stored")
				return nil
			}
			fmt.Fprintln(w, "ACCOUNT\tACCESS GROUP\tPOLICY")
			for _, a := range attrs {
				account, _ := a[secstore.AttrAccount].(string)
				group, _ := a[secstore.AttrAccessGroup].(string)
				policy, _ := a[secstore.AttrAccessible].(string)
				fmt.Fprintf(w, "%s\t%s\t%s\n", account, group, policy)
			}
			return w.Flush()
		}

		accounts, err := store.Accounts()
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println("No credentials stored")
			return nil
		}
		fmt.Fprintln(w, "ACCOUNT")
		for _, account := range accounts {
			fmt.Fprintln(w, account)
		}
		return w.Flush()
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <account>",
	Short:   "Remove a credential",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Credential %q deleted\n", args[0])
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every credential in the scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Scope cleared")
		return nil
	},
}

func init() {
	setCmd.Flags().BoolVar(&flagInsertOnly, "insert-only", false, "fail instead of updating an existing record")
	listCmd.Flags().BoolVarP(&flagLong, "long", "l", false, "include access group and policy")
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}
