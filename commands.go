package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookhub/library"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and its tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfg.DBPath()
			if err := library.EnsureSchema(path); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			cmd.Printf("Database ready at %s\n", path)
			return nil
		},
	}
}

func (a *app) userAddCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Add a user who can log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := library.EnsureSchema(a.cfg.DBPath()); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			p := prompter(cmd)
			password, ok := p.Secret(fmt.Sprintf("Enter password for %s: ", args[0]))
			if !ok {
				return errors.New("failed to read password")
			}
			confirm, ok := p.Secret("Confirm password: ")
			if !ok {
				return errors.New("failed to read password")
			}

			mgr, _ := a.manager(nil)
			id, err := mgr.AddUser(library.NewUser{
				Username: args[0],
				Email:    email,
				Password: password,
				Confirm:  confirm,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Added user '%s' with ID %d\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address of the user")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:       "export <books|clients|operations>",
		Short:     "Write a table to an Excel workbook",
		Args:      cobra.ExactArgs(1),
		ValidArgs: library.ExportNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := library.ExportTable(args[0])
			if err != nil {
				return fmt.Errorf("unknown table %q: want one of %s", args[0], strings.Join(library.ExportNames, ", "))
			}
			mgr, _ := a.manager(nil)
			if out == "" {
				out, err = mgr.Export(table)
			} else {
				err = mgr.ExportTo(table, out)
			}
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			cmd.Printf("Data exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination file (default: <export-dir>/<table file>)")
	return cmd
}

func (a *app) lookupCmd() *cobra.Command {
	lookup := &cobra.Command{
		Use:   "lookup",
		Short: "Manage the category, author and publisher lists",
	}
	lookup.AddCommand(&cobra.Command{
		Use:       "add <category|author|publisher> <name>",
		Short:     "Add a value to a choice list",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"category", "author", "publisher"},
		RunE: func(cmd *cobra.Command, args []string) error {
			l := library.Lookup(strings.ToLower(args[0]))
			mgr, _ := a.manager(nil)
			if _, err := mgr.AddLookup(l, args[1]); err != nil {
				return err
			}
			cmd.Printf("Added %s '%s'\n", l, strings.TrimSpace(args[1]))
			return nil
		},
	})
	return lookup
}

func (a *app) operationCmd() *cobra.Command {
	var from, to string
	operation := &cobra.Command{
		Use:   "operation",
		Short: "Record day operations",
	}
	add := &cobra.Command{
		Use:       "add <book> <client> <borrow|return>",
		Short:     "Record a borrow or return",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{string(library.OperationBorrow), string(library.OperationReturn)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _ := a.manager(nil)
			_, err := mgr.AddOperation(library.Operation{
				BookName:   args[0],
				ClientName: args[1],
				Type:       library.OperationType(strings.ToLower(args[2])),
				FromDate:   from,
				ToDate:     to,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Recorded %s of '%s' by '%s'\n", strings.ToLower(args[2]), args[0], args[1])
			return nil
		},
	}
	add.Flags().StringVar(&from, "from", "", "start date")
	add.Flags().StringVar(&to, "to", "", "end date")
	operation.AddCommand(add)
	return operation
}

// verifyCmd checks a username and password without opening a session. The
// exit status tells scripts whether the pair is valid.
func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <username>",
		Short: "Check a username and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prompter(cmd)
			password, ok := p.Secret("Password: ")
			if !ok {
				return errors.New("failed to read password")
			}
			_, provider := a.manager(nil)
			if !library.NewAuthenticator(provider, a.log).AuthenticateUser(args[0], password) {
				return library.ErrInvalidCredentials
			}
			cmd.Printf("Credentials for '%s' are valid\n", args[0])
			return nil
		},
	}
}
