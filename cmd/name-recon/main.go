package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"name-recon/internal/config"
	"name-recon/internal/logger"
)

const (
	appName    = "Name Recon"
	appVersion = "1.0.0"
	appDesc    = "Proposes readable names for obfuscated JVM classes"
)

// options holds the flags shared by every command and the loaded configuration
type options struct {
	configPath string
	verbose    bool
	outputDir  string
	noProgress bool
	out        io.Writer

	cfg *config.Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	root := newRootCmd(out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func newRootCmd(out io.Writer) *cobra.Command {
	o := &options{out: out}

	root := &cobra.Command{
		Use:           "name-recon",
		Short:         appDesc,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Name Recon reads decoded class dumps, indexes naming patterns in the bytecode
and proposes field, method and parameter names. Renames are propagated
through every related entry.

Examples:
  name-recon propose -c config.yaml
  name-recon rename "field a/A.b:I" count
  name-recon replay`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if warnings, errs := logger.Counts(); warnings+errs > 0 {
				logger.Info("Finished with %d warnings and %d errors, see %s", warnings, errs, logger.GetLogFilePath())
			}
			logger.Close()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "config.yaml", "Path to configuration file")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	flags.StringVarP(&o.outputDir, "output", "o", "", "Override output directory from config")
	flags.BoolVar(&o.noProgress, "no-progress", false, "Hide progress bars")

	root.AddCommand(newProposeCmd(o), newRenameCmd(o), newReplayCmd(o))
	return root
}

// init loads the configuration and starts the log file
func (o *options) init() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if o.outputDir != "" {
		abs, err := filepath.Abs(o.outputDir)
		if err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
		cfg.Output.Dir = abs
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logPath := filepath.Join(cfg.Output.Dir, "name_recon.log")
	if err := logger.Init(o.out, logPath, o.verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if o.verbose {
		cfg.Print()
	}

	o.cfg = cfg
	return nil
}

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "%s v%s\n%s\n\n", appName, appVersion, appDesc)
}
