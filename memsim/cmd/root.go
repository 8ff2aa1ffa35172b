// Package cmd provides the command-line interface of memsim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// newRootCmd creates the base command with all the subcommands attached.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memsim",
		Short: "memsim simulates contiguous memory allocation and paging.",
		Long: `memsim simulates two memory management schemes. The partition ` +
			`command places processes into variable-size partitions with ` +
			`first-fit, best-fit or worst-fit. The paging command runs a job ` +
			`on a fixed number of frames with FIFO page replacement. The ` +
			`serve command exposes both through a web dashboard.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("record", "",
		"Record the run into path.sqlite3, or into a ClickHouse server "+
			"when given a clickhouse:// DSN.")
	rootCmd.PersistentFlags().Bool("log", false,
		"Print every allocator and pager event to stderr.")

	rootCmd.AddCommand(
		newPartitionCmd(),
		newPagingCmd(),
		newServeCmd(),
		newReportCmd(),
	)

	return rootCmd
}

// envBindings maps flags to the environment variables that provide their
// defaults.
var envBindings = map[string]string{
	"total":     "MEMSIM_TOTAL_MEMORY",
	"os":        "MEMSIM_OS_SIZE",
	"algorithm": "MEMSIM_ALGORITHM",
	"frames":    "MEMSIM_FRAMES",
	"port":      "MEMSIM_PORT",
	"record":    "MEMSIM_RECORD",
}

// Execute loads the .env file, applies the environment defaults and runs the
// command line.
func Execute() {
	err := loadEnv(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		atexit.Exit(1)
	}

	rootCmd := newRootCmd()

	err = applyEnvDefaultsToTree(rootCmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadEnv(filename string) error {
	err := godotenv.Load(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func applyEnvDefaultsToTree(rootCmd *cobra.Command) error {
	err := applyEnvDefaults(rootCmd.PersistentFlags())
	if err != nil {
		return err
	}

	for _, c := range rootCmd.Commands() {
		err = applyEnvDefaults(c.Flags())
		if err != nil {
			return err
		}
	}

	return nil
}

// applyEnvDefaults sets the flags that have an environment variable. Values
// given on the command line are parsed later and win.
func applyEnvDefaults(flags *pflag.FlagSet) error {
	for name, env := range envBindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		value, ok := os.LookupEnv(env)
		if !ok {
			continue
		}

		if err := flag.Value.Set(value); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, value, err)
		}

		flag.DefValue = value
	}

	return nil
}
