// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Command fragment splits files into erasure coded shards and reassembles
// them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storj.io/common/memory"
	"storj.io/fragment"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by every command.
type cli struct {
	vip *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{vip: viper.New()}

	root := &cobra.Command{
		Use:           "fragment",
		Short:         "Erasure code files into shards and back",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "yaml config file with flag defaults")
	flags.String("log.level", "info", "the minimum log level to log")
	flags.String("log.encoding", "console", "configures log encoding. can either be 'console' or 'json'")
	flags.String("log.output", "stderr", "can be stdout, stderr, or a filename")
	flags.Bool("log.caller", false, "if true, log function filename and line number")

	root.AddCommand(
		c.encodeCmd(),
		c.decodeCmd(),
		c.benchCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := loadConfig(cmd, c.vip); err != nil {
		return err
	}
	log, err := newLogger(c.vip)
	if err != nil {
		return err
	}
	c.log = log
	return nil
}

func codingFlags(flags *pflag.FlagSet) {
	flags.String("technique", "reed_sol_van", "coding technique, one of "+techniqueNames())
	flags.Int("k", 4, "number of data shards")
	flags.Int("m", 2, "number of coding shards")
	flags.Int("w", 8, "word size in bits")
	flags.Int("packetsize", 0, "packet size in bytes, required by bitmatrix techniques")
	flags.String("buffersize", "0", "bytes encoded per pass, for example 64MiB; 0 encodes in one pass")
}

// codingJob builds a job from the coding flags.
func (c *cli) codingJob() (fragment.Job, error) {
	bufferSize, err := parseSize("buffersize", c.vip.GetString("buffersize"))
	if err != nil {
		return fragment.Job{}, err
	}
	return fragment.Job{
		Technique:  c.vip.GetString("technique"),
		K:          c.vip.GetInt("k"),
		M:          c.vip.GetInt("m"),
		W:          c.vip.GetInt("w"),
		PacketSize: c.vip.GetInt("packetsize"),
		BufferSize: bufferSize.Int(),
	}, nil
}

func (c *cli) encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Split a file into data and coding shards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := c.codingJob()
			if err != nil {
				return err
			}
			job.Source = args[0]
			job.OutputDir = c.vip.GetString("output")

			enc, err := fragment.NewEncoder(c.log, job)
			if err != nil {
				return err
			}
			res, err := c.watch(cmd.Context(), enc.Progress(), enc.Encode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, shard := range res.Shards {
				_, _ = fmt.Fprintln(out, shard)
			}
			_, _ = fmt.Fprintln(out, res.Metadata)
			printTiming(cmd, "Encoding", res)
			return nil
		},
	}
	codingFlags(cmd.Flags())
	cmd.Flags().String("output", "Coding", "directory receiving the shards and metadata")
	return cmd
}

func (c *cli) decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <metadata>",
		Short: "Reassemble a file from its metadata and any k shards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := fragment.NewDecoder(c.log, fragment.DecodeJob{
				MetadataPath: args[0],
				OutputPath:   c.vip.GetString("output"),
			})
			if err != nil {
				return err
			}
			res, err := c.watch(cmd.Context(), dec.Progress(), dec.Decode)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			printTiming(cmd, "Decoding", res)
			return nil
		},
	}
	cmd.Flags().String("output", "", "reconstructed file; defaults to <base>_decoded<ext> next to the shards")
	return cmd
}

func (c *cli) benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Encode generated data without writing any files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := c.codingJob()
			if err != nil {
				return err
			}
			size, err := parseSize("size", c.vip.GetString("size"))
			if err != nil {
				return err
			}
			job.Benchmark = &fragment.Benchmark{
				Size: size.Int64(),
				Seed: c.vip.GetUint64("seed"),
			}

			enc, err := fragment.NewEncoder(c.log, job)
			if err != nil {
				return err
			}
			res, err := c.watch(cmd.Context(), enc.Progress(), enc.Encode)
			if err != nil {
				return err
			}
			printTiming(cmd, "Encoding", res)
			return nil
		},
	}
	codingFlags(cmd.Flags())
	cmd.Flags().String("size", "64MiB", "amount of generated data")
	cmd.Flags().Uint64("seed", 1, "seed of the generated data")
	return cmd
}

// watch runs job while serving diagnostic reports for progress.
func (c *cli) watch(ctx context.Context, progress *fragment.Progress, job func(context.Context) (*fragment.Result, error)) (*fragment.Result, error) {
	signals := make(chan os.Signal, 1)
	notifyDiagnostics(signals)
	defer signal.Stop(signals)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go fragment.WatchDiagnostics(watchCtx, c.log, progress, signals, os.Stderr)

	return job(ctx)
}

func printTiming(cmd *cobra.Command, what string, res *fragment.Result) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s (MB/sec): %0.10f\n", what, res.Throughput()/float64(memory.MiB))
	_, _ = fmt.Fprintf(out, "%s time: %s\n", what, res.Elapsed)
}
