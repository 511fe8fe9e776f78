// Command chainetl is the CLI entry point the job pipelines in package
// job are driven from, grounded on cmd/kcn/main.go's app-construction
// style (a package-level *cli.App, Commands built up in init, a thin
// main that calls app.Run and translates a returned error into a
// process exit code) — generalized from "run one Klaytn node" to "run
// one export job and exit."
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli"

	"github.com/kaiachain/chainetl/checkpoint"
	"github.com/kaiachain/chainetl/executor"
	"github.com/kaiachain/chainetl/export"
	"github.com/kaiachain/chainetl/job"
	"github.com/kaiachain/chainetl/kafkabroker"
	"github.com/kaiachain/chainetl/log"
	"github.com/kaiachain/chainetl/rpc"
)

var logger = log.NewModuleLogger("chainetl")

// usageError marks an argument/flag problem, mapped to spec §6's exit
// code 1 ("invalid args"); anything else surfacing from a job's Run is
// a fatal RPC/parse error, exit code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chainetl"
	app.Usage = "export Klaytn blocks, traces, contracts and tokens to line-delimited JSON or CSV"
	app.Commands = []cli.Command{
		exportAllCommand,
		exportBlockGroupCommand,
		exportTraceGroupRPCCommand,
		exportTraceGroupKafkaCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logger.Error("job failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		if _, ok := err.(usageError); ok {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

var exportAllCommand = cli.Command{
	Name:  "export-all",
	Usage: "export blocks, transactions, receipts, logs and token transfers for a block range",
	Flags: append(append([]cli.Flag{}, commonJobFlags...),
		BlocksFlag, TransactionsFlag, ReceiptsFlag, LogsFlag, TokenTransfersFlag),
	Action: runExportAll,
}

var exportBlockGroupCommand = cli.Command{
	Name:  "export-block-group",
	Usage: "alias of export-all, per spec's export_block_group CLI surface",
	Flags: exportAllCommand.Flags,
	Action: runExportAll,
}

var exportTraceGroupRPCCommand = cli.Command{
	Name:  "export-trace-group-rpc",
	Usage: "export traces, contracts and tokens for a block range, fetching traces over debug_traceBlockByNumber",
	Flags: append(append([]cli.Flag{}, commonJobFlags...),
		TracesFlag, ContractsFlag, TokensFlag),
	Action: runExportTraceGroupRPC,
}

var exportTraceGroupKafkaCommand = cli.Command{
	Name:  "export-trace-group-kafka",
	Usage: "export traces, contracts and tokens for a block range, sourcing traces from a segmented Kafka topic",
	Flags: append(append([]cli.Flag{}, commonJobFlags...),
		TracesFlag, ContractsFlag, TokensFlag,
		KafkaBrokersFlag, KafkaTopicFlag, KafkaPartitionFlag, KafkaStartOffsetFlag,
		CheckpointRedisAddrFlag, CheckpointKeyFlag),
	Action: runExportTraceGroupKafka,
}

func runExportAll(ctx *cli.Context) error {
	cfg, err := loadJobConfig(ctx)
	if err != nil {
		return usageError{err}
	}
	flags := job.BlockRangeFlags{
		Blocks: cfg.Blocks, Transactions: cfg.Transactions, Receipts: cfg.Receipts,
		Logs: cfg.Logs, TokenTransfers: cfg.TokenTransfers,
	}
	if !flags.Blocks && !flags.Transactions && !flags.Receipts && !flags.Logs && !flags.TokenTransfers {
		flags = job.BlockRangeFlags{Blocks: true, Transactions: true, Receipts: true, Logs: true, TokenTransfers: true}
	}
	if err := validateRange(cfg); err != nil {
		return usageError{err}
	}

	exporter, err := buildExporter(cfg, []string{"block", "transaction", "receipt", "log", "token_transfer"})
	if err != nil {
		return usageError{err}
	}

	j := &job.BlockGroupJob{
		Start:    uint64(cfg.StartBlock),
		End:      uint64(cfg.EndBlock),
		Dialer:   rpc.NewDialer(cfg.ProviderURI),
		Executor: executor.New(executor.Config{Workers: cfg.MaxWorkers, BatchSize: cfg.BatchSize, ProgressEvery: 10}),
		Exporter: exporter,
		Flags:    flags,
	}
	return j.Run(context.Background())
}

func runExportTraceGroupRPC(ctx *cli.Context) error {
	cfg, err := loadJobConfig(ctx)
	if err != nil {
		return usageError{err}
	}
	flags := traceFlagsFromConfig(cfg)
	if err := validateRange(cfg); err != nil {
		return usageError{err}
	}

	exporter, err := buildExporter(cfg, []string{"trace", "contract", "token"})
	if err != nil {
		return usageError{err}
	}

	j := &job.TraceGroupRPCJob{
		Start:    uint64(cfg.StartBlock),
		End:      uint64(cfg.EndBlock),
		Dialer:   rpc.NewDialer(cfg.ProviderURI),
		Executor: executor.New(executor.Config{Workers: cfg.MaxWorkers, BatchSize: cfg.BatchSize, ProgressEvery: 10}),
		Exporter: exporter,
		Flags:    flags,
	}
	return j.Run(context.Background())
}

func runExportTraceGroupKafka(ctx *cli.Context) error {
	cfg, err := loadJobConfig(ctx)
	if err != nil {
		return usageError{err}
	}
	flags := traceFlagsFromConfig(cfg)
	if err := validateRange(cfg); err != nil {
		return usageError{err}
	}
	if cfg.KafkaTopic == "" || len(cfg.KafkaBrokers) == 0 {
		return usageError{fmt.Errorf("chainetl: --kafka-broker and --kafka-topic are required")}
	}

	exporter, err := buildExporter(cfg, []string{"trace", "contract", "token"})
	if err != nil {
		return usageError{err}
	}

	store, checkpointKey, err := buildCheckpointStore(cfg)
	if err != nil {
		return usageError{err}
	}

	startOffset := int64(cfg.KafkaStartOffset)
	if offset, found, err := store.ReadOffset(context.Background(), checkpointKey); err != nil {
		return err
	} else if found {
		startOffset = offset + 1
	}

	consumer, err := newKafkaConsumer(cfg, startOffset)
	if err != nil {
		return usageError{err}
	}

	j := &job.TraceGroupKafkaJob{
		Start:         uint64(cfg.StartBlock),
		End:           uint64(cfg.EndBlock),
		Consumer:      consumer,
		Dialer:        rpc.NewDialer(cfg.ProviderURI),
		Exporter:      exporter,
		Flags:         flags,
		Checkpoint:    store,
		CheckpointKey: checkpointKey,
	}
	return j.Run(context.Background())
}

func traceFlagsFromConfig(cfg jobConfig) job.TraceRangeFlags {
	flags := job.TraceRangeFlags{Traces: cfg.Traces, Contracts: cfg.Contracts, Tokens: cfg.Tokens}
	if !flags.Traces && !flags.Contracts && !flags.Tokens {
		flags = job.TraceRangeFlags{Traces: true, Contracts: true, Tokens: true}
	}
	return flags
}

func validateRange(cfg jobConfig) error {
	if cfg.StartBlock < 0 || cfg.EndBlock < 0 {
		return fmt.Errorf("chainetl: block numbers must be non-negative")
	}
	if cfg.StartBlock > cfg.EndBlock {
		return fmt.Errorf("chainetl: --start-block must be <= --end-block")
	}
	if cfg.OutputDir == "" && cfg.S3Bucket == "" {
		return fmt.Errorf("chainetl: one of --output-dir or --s3-bucket is required")
	}
	return nil
}

// buildExporter wires a RotatingWriter per requested item type onto
// either a LocalSink or an S3Sink, per spec §4.10's filesystem layout
// and §1's "sinks are out of scope, specified only at their interface."
func buildExporter(cfg jobConfig, types []string) (*export.MultiExporter, error) {
	var sink export.Sink
	if cfg.S3Bucket != "" {
		s3Sink, err := export.NewS3Sink(cfg.S3Bucket, "")
		if err != nil {
			return nil, err
		}
		sink = s3Sink
	} else {
		sink = export.LocalSink{Root: cfg.OutputDir}
	}

	format := export.FormatJSON
	if cfg.FileFormat == "csv" {
		format = export.FormatCSV
	}

	writers := make(map[string]export.ItemWriter, len(types))
	for _, t := range types {
		writers[t] = export.NewRotatingWriter(sink, t, nil, format, cfg.Compress, cfg.FileMaxLines)
	}
	return export.NewMultiExporter(writers), nil
}

func buildCheckpointStore(cfg jobConfig) (checkpoint.Store, string, error) {
	key := cfg.CheckpointKey
	if cfg.CheckpointRedisAddr == "" {
		return checkpoint.NewMemStore(), key, nil
	}
	store, err := checkpoint.NewRedisStore(cfg.CheckpointRedisAddr, "chainetl")
	if err != nil {
		return nil, "", err
	}
	return store, key, nil
}

func newKafkaConsumer(cfg jobConfig, startOffset int64) (*kafkabroker.PartitionConsumer, error) {
	return kafkabroker.NewPartitionConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, int32(cfg.KafkaPartition), startOffset)
}
