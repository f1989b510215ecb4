package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vocdoni/pod2-sandbox/config"
	"github.com/vocdoni/pod2-sandbox/log"
)

var conf = config.Default()

var rootCmd = &cobra.Command{
	Use:   "podnode",
	Short: "POD2 sandbox node",
	Long: `podnode signs, derives and proves PODs.

It serves an HTTP API to create Schnorr and oracle PODs, queues plonky
proving jobs and keeps a registry of every stored POD.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(conf.LogLevel, conf.LogOut, nil)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&conf.LogLevel, "log-level", conf.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&conf.LogOut, "log-output", conf.LogOut, "log output (stdout, stderr or a file path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(clientCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
