// Package main implements reflexctl, the command-line entry point for the
// autonomy reflex core.
//
// # File Index
//
//   - main.go   - entry point, rootCmd, global flags, init()
//   - status.go - statusCmd: prints the runtime config banner and digest
//   - demo.go   - demoCmd: runs a scripted hunger-reflex firing end to end
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reflexcore/internal/logging"
)

var (
	workspace string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "reflexctl",
	Short: "reflexctl - autonomy reflex controller CLI",
	Long: `reflexctl drives and inspects the autonomy reflex core: the hysteresis-gated
reflex controller, content-addressed evidence bundles, the lifecycle event
bus, and the execution gateway.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "not read; debug logging is set by debug_mode in <workspace>/.reflex/config.json")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
