// Command mbpconv reconstructs an MBP-10 depth-of-book CSV from an MBO
// event stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"mbpbook/config"
	"mbpbook/ingest"
	"mbpbook/logging"
	"mbpbook/metrics"
	"mbpbook/processor"
	"mbpbook/sink"
)

const defaultOutputPath = "mbp_output.csv"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("mbpconv", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to a YAML config file")
	kafkaTopic := fs.String("kafka-topic", "", "Kafka topic to fan snapshots out to, in addition to the CSV output")
	kafkaBrokers := fs.String("kafka-brokers", "", "comma-separated Kafka broker addresses")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	positional := fs.Args()
	if len(positional) < 1 || len(positional) > 2 {
		fmt.Fprintln(stderr, "usage: mbpconv [flags] input_file [output_file]")
		return 1
	}
	inputPath := positional[0]

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg = loaded
	}

	outputPath := cfg.Output.Path
	if outputPath == "" {
		outputPath = defaultOutputPath
	}
	if len(positional) == 2 {
		outputPath = positional[1]
	}
	if *kafkaTopic != "" {
		cfg.Kafka.Enabled = true
		cfg.Kafka.Topic = *kafkaTopic
		if *kafkaBrokers != "" {
			cfg.Kafka.Brokers = strings.Split(*kafkaBrokers, ",")
		}
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *metricsAddr
	}

	logger := logging.New(cfg.Logging)
	log := logging.Adapter{Logger: logger}

	mrec := metrics.New()
	reg := prometheus.NewRegistry()
	mrec.Register(reg)

	var metricsCancel context.CancelFunc
	if cfg.Metrics.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		metricsCancel = cancel
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, logger); err != nil {
				logger.Warn().Err(err).Msg("metrics server exited with error")
			}
		}()
		trapSignals(cancel)
	}
	if metricsCancel != nil {
		defer metricsCancel()
	}

	inFile, err := os.Open(inputPath)
	if err != nil {
		logger.Error().Err(err).Str("path", inputPath).Msg("cannot open input")
		return 1
	}
	defer inFile.Close()

	src, err := ingest.NewCSVSource(inFile)
	if err != nil {
		logger.Error().Err(err).Msg("source failure")
		return 1
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		logger.Error().Err(err).Str("path", outputPath).Msg("cannot create output")
		return 1
	}

	var snk sink.Sink = sink.NewCSVSink(outFile)
	if cfg.Kafka.Enabled {
		snk = sink.NewMulti(snk, sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	}

	p := processor.New(src, snk, log, mrec)
	stats, err := p.Run()
	if err != nil {
		logger.Error().Err(err).Msg("fatal processing error")
		return 1
	}

	logger.Info().
		Uint64("events", stats.EventsSeen).
		Uint64("snapshots", stats.SnapshotsEmitted).
		Uint64("skipped", stats.Skipped).
		Msg("done")
	return 0
}

func trapSignals(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()
}
