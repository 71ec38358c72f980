package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bookhub/config"
	"bookhub/library"
	"bookhub/logging"
	"bookhub/shell"
)

// app carries what every command needs once flags are parsed.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:               "bookhub",
		Short:             "Library management: books, clients, users and day operations",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: a.runShell,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./bookhub.yaml)")
	flags.String("data-dir", "", "directory holding the database file")
	flags.String("db-file", "", "database file name")
	flags.String("export-dir", "", "directory for exported workbooks")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "console or json")
	for key, name := range map[string]string{
		config.KeyConfigFile: "config",
		config.KeyDataDir:    "data-dir",
		config.KeyDBFile:     "db-file",
		config.KeyExportDir:  "export-dir",
		config.KeyLogLevel:   "log-level",
		config.KeyLogFormat:  "log-format",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		a.initCmd(),
		a.userAddCmd(),
		a.exportCmd(),
		a.lookupCmd(),
		a.operationCmd(),
		a.verifyCmd(),
	)
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// manager returns a manager over the configured database. With a nil
// prompter, open failures are returned instead of asking for a directory.
func (a *app) manager(prompt library.DirPrompter) (*library.LibraryManager, *library.Provider) {
	provider := library.NewProvider(a.cfg.DBPath(), prompt, a.log)
	mgr := library.NewLibraryManager(provider, library.Options{
		ExportDir:  a.cfg.ExportDir,
		BcryptCost: a.cfg.BcryptCost,
	}, a.log)
	return mgr, provider
}

// prompter reads from the command's input. On the process's own stdin it
// masks passwords.
func prompter(cmd *cobra.Command) *shell.Prompter {
	if in := cmd.InOrStdin(); in != os.Stdin {
		return shell.NewPrompter(in, cmd.OutOrStdout())
	}
	return shell.NewTerminalPrompter()
}

// runShell initializes the store, then runs login followed by the session
// shell. A damaged database file leads to the data directory prompt; only an
// unusable path is fatal.
func (a *app) runShell(cmd *cobra.Command, _ []string) error {
	p := prompter(cmd)
	mgr, provider := a.manager(p)

	if err := provider.Init(); err != nil {
		if errors.Is(err, library.ErrCancelled) {
			return nil
		}
		a.log.Error("schema initialization failed", zap.String("path", provider.Path()), zap.Error(err))
		return fmt.Errorf("initialize database: %w", err)
	}

	session, err := shell.Login(library.NewAuthenticator(provider, a.log), p)
	if errors.Is(err, io.EOF) {
		p.Println()
		return nil
	}
	if err != nil {
		return err
	}
	return shell.NewShell(session, mgr, p, a.log).Run()
}
