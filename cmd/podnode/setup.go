package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/config"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/service"
)

var setupTimeout time.Duration

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Compile the circuits of a parameters tuple and cache their keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := conf.Validate(); err != nil {
			return err
		}
		if cmd.Flags().Changed("datadir") {
			circuits.BaseDir = filepath.Join(conf.DataDir, "artifacts")
		}
		seed := []byte(circuits.DefaultToxicSeed)
		if conf.Seed != "" {
			seed = []byte(conf.Seed)
		}
		startTime := time.Now()
		if err := service.PrepareArtifacts(setupTimeout, seed, conf.Params); err != nil {
			return err
		}
		log.Infow("circuit artifacts ready",
			"params", conf.Params.String(),
			"dir", circuits.BaseDir,
			"took", time.Since(startTime).String())
		return nil
	},
}

func init() {
	setupCmd.Flags().DurationVar(&setupTimeout, "timeout", config.DefaultSetupTimeout, "setup timeout")
	addParamsFlags(setupCmd)
}
