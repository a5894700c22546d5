package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/conceptor/internal/config"
)

// Version is overridden at build time with -ldflags.
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conceptor",
	Short: "Conceptor - problem/persona concept intake and evaluation",
	Long: `Conceptor records product concepts (a problem and the persona who has it),
asks an LLM evaluator how well-defined they are, and tracks each concept
through draft, evaluated, accepted and archived.

Any concept can be anonymized: its text is replaced and its evaluation is
redacted while ids, dates and lifecycle history are kept. Concepts past their
availability window are anonymized by 'conceptor sweep'.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Conceptor.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "conceptor %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.conceptor/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.DurationVar(&timeout, "timeout", 5*time.Minute, "overall command timeout")
	flags.String("store", "", "store driver (memory, sqlite)")
	flags.String("db", "", "sqlite database path")
	flags.String("provider", "", "evaluator provider (openai, anthropic, ollama)")
	flags.String("model", "", "evaluator model name")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("store.driver", flags.Lookup("store"))
	_ = viper.BindPFlag("store.path", flags.Lookup("db"))
	_ = viper.BindPFlag("evaluator.provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("evaluator.model", flags.Lookup("model"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.HomeDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged defaults, file, env and flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Store.Driver == "sqlite" {
		cfg.Store.Path = filepath.Clean(cfg.Store.Path)
	}
	return cfg, nil
}
