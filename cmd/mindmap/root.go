package main

import (
	"github.com/spf13/cobra"

	"mindmap/internal/config"
	"mindmap/internal/ui"
)

var version = "0.1.0"

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "mindmap",
		Short:         "mindmap: interactive node-link diagram editor",
		Long:          ui.Brand.Sprint("mindmap") + " hosts a node-link diagram editor over HTTP and archives its snapshots",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("mindmap {{ .Version }}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: search $"+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG, /etc)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&flags.dbPath, "db", "", "snapshot database path override")

	root.AddCommand(
		serveCmd(flags),
		snapshotsCmd(flags),
	)
	return root
}

// load resolves the config file and applies flag overrides
func (f *globalFlags) load() (*config.Config, string, error) {
	cfg, path, err := config.Resolve(f.configPath)
	if err != nil {
		return nil, path, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.dbPath != "" {
		cfg.Database.Path = f.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
