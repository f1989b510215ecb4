package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vocdoni/pod2-sandbox/circuits"
	"github.com/vocdoni/pod2-sandbox/log"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/prover"
	"github.com/vocdoni/pod2-sandbox/service"
	"github.com/vocdoni/pod2-sandbox/storage"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the node API and the plonky prover",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := conf.Validate(); err != nil {
			return err
		}
		if cmd.Flags().Changed("datadir") {
			circuits.BaseDir = filepath.Join(conf.DataDir, "artifacts")
		}

		database, err := metadb.New(db.TypePebble, conf.DBDir())
		if err != nil {
			return err
		}
		stg, err := storage.New(database)
		if err != nil {
			return err
		}
		defer stg.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		apiService := service.NewAPI(stg, conf.Params, conf.Host, conf.Port)
		if err := apiService.Start(ctx); err != nil {
			return err
		}
		defer apiService.Stop()

		if conf.Prover {
			proverService := service.NewProver(stg, conf.Params, apiService, proverOptions()...)
			if err := proverService.Start(ctx); err != nil {
				return err
			}
			defer proverService.Stop()
		} else {
			log.Warnw("plonky prover disabled, plonky jobs will stay pending")
		}

		log.Infow("pod node running",
			"params", conf.Params.String(),
			"datadir", conf.DataDir,
			"pendingJobs", stg.CountPendingJobs())
		<-ctx.Done()
		log.Infow("shutting down")
		return nil
	},
}

func proverOptions() []prover.Option {
	opts := []prover.Option{prover.WithArtifacts(conf.Artifacts)}
	if conf.Seed != "" {
		opts = append(opts, prover.WithSeed([]byte(conf.Seed)))
	}
	return opts
}

// addParamsFlags binds the parameters tuple flags of cmd to conf.
func addParamsFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&conf.Params.L, "l", pod.DefaultParams.L, "maximum number of oracle inputs")
	cmd.Flags().IntVar(&conf.Params.M, "m", pod.DefaultParams.M, "maximum number of Schnorr inputs")
	cmd.Flags().IntVar(&conf.Params.N, "n", pod.DefaultParams.N, "maximum number of plonky inputs")
	cmd.Flags().IntVar(&conf.Params.NS, "ns", pod.DefaultParams.NS, "statements per pod")
	cmd.Flags().IntVar(&conf.Params.VL, "vl", pod.DefaultParams.VL, "vector length")
	cmd.Flags().StringVar(&conf.Seed, "seed", "", "toxic seed of the KZG SRS (defaults to the built-in sandbox seed)")
	cmd.Flags().BoolVar(&conf.Artifacts, "artifacts", conf.Artifacts, "cache compiled circuits and keys under the data directory")
	cmd.Flags().StringVar(&conf.DataDir, "datadir", conf.DataDir, "data directory")
}

func init() {
	serveCmd.Flags().StringVar(&conf.Host, "host", conf.Host, "API listen host")
	serveCmd.Flags().IntVar(&conf.Port, "port", conf.Port, "API listen port")
	serveCmd.Flags().BoolVar(&conf.Prover, "prover", conf.Prover, "build the prover parameters and prove queued plonky jobs")
	addParamsFlags(serveCmd)
}
