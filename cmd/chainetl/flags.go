// This file is derived from cmd/utils/flags.go's flag-registration style:
// package-level cli.Flag values shared across subcommands instead of each
// command declaring its own copies.
package main

import (
	"github.com/urfave/cli"
)

var (
	ProviderURIFlag = cli.StringFlag{
		Name:  "provider-uri",
		Usage: "Klaytn JSON-RPC endpoint",
		Value: "http://localhost:8551",
	}
	StartBlockFlag = cli.IntFlag{
		Name:  "start-block",
		Usage: "first block number to export (inclusive)",
	}
	EndBlockFlag = cli.IntFlag{
		Name:  "end-block",
		Usage: "last block number to export (inclusive)",
	}
	BatchSizeFlag = cli.IntFlag{
		Name:  "batch-size",
		Usage: "initial RPC batch size B",
		Value: 100,
	}
	MaxWorkersFlag = cli.IntFlag{
		Name:  "max-workers",
		Usage: "worker pool size W",
		Value: 5,
	}
	OutputDirFlag = cli.StringFlag{
		Name:  "output-dir",
		Usage: "local output directory root (rotating filesystem layout)",
	}
	S3BucketFlag = cli.StringFlag{
		Name:  "s3-bucket",
		Usage: "S3 bucket to write output to, instead of --output-dir",
	}
	FileFormatFlag = cli.StringFlag{
		Name:  "file-format",
		Usage: "output record format: json or csv",
		Value: "json",
	}
	FileMaxLinesFlag = cli.IntFlag{
		Name:  "file-maxlines",
		Usage: "records per rotated file",
		Value: 1000,
	}
	CompressFlag = cli.BoolFlag{
		Name:  "compress",
		Usage: "gzip rotated output files",
	}
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}

	// per-type enable flags, shared by export-all and export-block-group.
	BlocksFlag         = cli.BoolFlag{Name: "blocks", Usage: "export block records"}
	TransactionsFlag   = cli.BoolFlag{Name: "transactions", Usage: "export transaction records"}
	ReceiptsFlag       = cli.BoolFlag{Name: "receipts", Usage: "export receipt records"}
	LogsFlag           = cli.BoolFlag{Name: "logs", Usage: "export receipt log records"}
	TokenTransfersFlag = cli.BoolFlag{Name: "token-transfers", Usage: "export token transfer records extracted from logs"}
	TracesFlag         = cli.BoolFlag{Name: "traces", Usage: "export trace records"}
	ContractsFlag      = cli.BoolFlag{Name: "contracts", Usage: "export contract records synthesized from create traces"}
	TokensFlag         = cli.BoolFlag{Name: "tokens", Usage: "export token records synthesized from classified contracts"}

	// Kafka trace-group variant.
	KafkaBrokersFlag = cli.StringSliceFlag{
		Name:  "kafka-broker",
		Usage: "Kafka broker address (repeatable)",
	}
	KafkaTopicFlag = cli.StringFlag{
		Name:  "kafka-topic",
		Usage: "Kafka topic carrying segmented trace payloads",
	}
	KafkaPartitionFlag = cli.IntFlag{
		Name:  "kafka-partition",
		Usage: "Kafka partition to consume",
	}
	KafkaStartOffsetFlag = cli.IntFlag{
		Name:  "kafka-start-offset",
		Usage: "offset to resume consuming from when no checkpoint is found",
		Value: -2, // sarama.OffsetOldest
	}
	CheckpointRedisAddrFlag = cli.StringFlag{
		Name:  "checkpoint-redis-addr",
		Usage: "Redis address for offset checkpointing; empty keeps checkpoints in memory only",
	}
	CheckpointKeyFlag = cli.StringFlag{
		Name:  "checkpoint-key",
		Usage: "key this job's consumer offset is checkpointed under",
		Value: "chainetl:trace-group-kafka",
	}
)

var commonJobFlags = []cli.Flag{
	ProviderURIFlag,
	StartBlockFlag,
	EndBlockFlag,
	BatchSizeFlag,
	MaxWorkersFlag,
	OutputDirFlag,
	S3BucketFlag,
	FileFormatFlag,
	FileMaxLinesFlag,
	CompressFlag,
	ConfigFileFlag,
}
