// Command import_books loads books from an allBooks.xlsx-shaped workbook
// into the library database.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookhub/library"
	"bookhub/logging"
)

func main() {
	var (
		dbPath   string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "import_books <workbook.xlsx>",
		Short:        "Import books from an Excel workbook",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logLevel, "console")
			if err != nil {
				return err
			}
			defer log.Sync()
			return run(cmd, log, dbPath, args[0])
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", library.DefaultDBFile, "database file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, log *zap.Logger, dbPath, workbook string) error {
	if _, err := os.Stat(workbook); err != nil {
		return fmt.Errorf("workbook not accessible: %w", err)
	}
	if err := library.EnsureSchema(dbPath); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	mgr := library.NewLibraryManager(library.NewProvider(dbPath, nil, log), library.Options{}, log)
	cmd.Printf("Importing books from %s...\n", workbook)
	res, err := mgr.ImportBooks(workbook)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		cmd.Printf("ERROR - %s\n", e)
	}

	cmd.Printf("\nImport complete!\n")
	cmd.Printf("Successfully imported: %d books\n", res.Imported)
	cmd.Printf("Errors: %d\n", len(res.Errors))

	if res.Imported > 0 {
		rows, err := mgr.Books()
		if err != nil {
			return fmt.Errorf("retrieving books: %w", err)
		}
		cmd.Println("\nBooks in library:")
		cmd.Printf("%-10s %-40s %-25s\n", "Code", "Title", "Author")
		cmd.Println(strings.Repeat("-", 77))
		for _, r := range rows {
			s := r.Strings()
			cmd.Printf("%-10s %-40s %-25s\n", truncateString(s[0], 10), truncateString(s[1], 40), truncateString(s[4], 25))
		}
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
