// This file is derived from cmd/utils/nodecmd/dumpconfigcmd.go's TOML
// config loading: the same naoina/toml settings (field names left
// exactly as written, no snake_case normalization) and the same
// file-name-annotated error wrapping, applied to this tool's much
// smaller configuration surface instead of klaytn's full node config.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli"
)

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// jobConfig mirrors the flags a job subcommand accepts, so a TOML file
// can supply defaults a caller overrides per-invocation with flags.
type jobConfig struct {
	ProviderURI  string
	StartBlock   int
	EndBlock     int
	BatchSize    int
	MaxWorkers   int
	OutputDir    string
	S3Bucket     string
	FileFormat   string
	FileMaxLines int
	Compress     bool

	Blocks         bool
	Transactions   bool
	Receipts       bool
	Logs           bool
	TokenTransfers bool
	Traces         bool
	Contracts      bool
	Tokens         bool

	KafkaBrokers          []string
	KafkaTopic            string
	KafkaPartition        int
	KafkaStartOffset      int
	CheckpointRedisAddr   string
	CheckpointKey         string
}

func defaultJobConfig() jobConfig {
	return jobConfig{
		ProviderURI:      ProviderURIFlag.Value,
		BatchSize:        BatchSizeFlag.Value,
		MaxWorkers:       MaxWorkersFlag.Value,
		FileFormat:       FileFormatFlag.Value,
		FileMaxLines:     FileMaxLinesFlag.Value,
		KafkaStartOffset: KafkaStartOffsetFlag.Value,
		CheckpointKey:    CheckpointKeyFlag.Value,
	}
}

// loadConfigFile decodes file into cfg, annotating line-numbered TOML
// errors with the offending file name.
func loadConfigFile(file string, cfg *jobConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// applyFlags overlays ctx's explicitly-set flags onto cfg, giving flags
// precedence over the config file the way makeConfigNode does for
// klaytn's node flags.
func applyFlags(ctx *cli.Context, cfg *jobConfig) {
	if ctx.IsSet(ProviderURIFlag.Name) {
		cfg.ProviderURI = ctx.String(ProviderURIFlag.Name)
	}
	if ctx.IsSet(StartBlockFlag.Name) {
		cfg.StartBlock = ctx.Int(StartBlockFlag.Name)
	}
	if ctx.IsSet(EndBlockFlag.Name) {
		cfg.EndBlock = ctx.Int(EndBlockFlag.Name)
	}
	if ctx.IsSet(BatchSizeFlag.Name) {
		cfg.BatchSize = ctx.Int(BatchSizeFlag.Name)
	}
	if ctx.IsSet(MaxWorkersFlag.Name) {
		cfg.MaxWorkers = ctx.Int(MaxWorkersFlag.Name)
	}
	if ctx.IsSet(OutputDirFlag.Name) {
		cfg.OutputDir = ctx.String(OutputDirFlag.Name)
	}
	if ctx.IsSet(S3BucketFlag.Name) {
		cfg.S3Bucket = ctx.String(S3BucketFlag.Name)
	}
	if ctx.IsSet(FileFormatFlag.Name) {
		cfg.FileFormat = ctx.String(FileFormatFlag.Name)
	}
	if ctx.IsSet(FileMaxLinesFlag.Name) {
		cfg.FileMaxLines = ctx.Int(FileMaxLinesFlag.Name)
	}
	if ctx.IsSet(CompressFlag.Name) {
		cfg.Compress = ctx.Bool(CompressFlag.Name)
	}

	if ctx.IsSet(BlocksFlag.Name) {
		cfg.Blocks = ctx.Bool(BlocksFlag.Name)
	}
	if ctx.IsSet(TransactionsFlag.Name) {
		cfg.Transactions = ctx.Bool(TransactionsFlag.Name)
	}
	if ctx.IsSet(ReceiptsFlag.Name) {
		cfg.Receipts = ctx.Bool(ReceiptsFlag.Name)
	}
	if ctx.IsSet(LogsFlag.Name) {
		cfg.Logs = ctx.Bool(LogsFlag.Name)
	}
	if ctx.IsSet(TokenTransfersFlag.Name) {
		cfg.TokenTransfers = ctx.Bool(TokenTransfersFlag.Name)
	}
	if ctx.IsSet(TracesFlag.Name) {
		cfg.Traces = ctx.Bool(TracesFlag.Name)
	}
	if ctx.IsSet(ContractsFlag.Name) {
		cfg.Contracts = ctx.Bool(ContractsFlag.Name)
	}
	if ctx.IsSet(TokensFlag.Name) {
		cfg.Tokens = ctx.Bool(TokensFlag.Name)
	}

	if ctx.IsSet(KafkaBrokersFlag.Name) {
		cfg.KafkaBrokers = ctx.StringSlice(KafkaBrokersFlag.Name)
	}
	if ctx.IsSet(KafkaTopicFlag.Name) {
		cfg.KafkaTopic = ctx.String(KafkaTopicFlag.Name)
	}
	if ctx.IsSet(KafkaPartitionFlag.Name) {
		cfg.KafkaPartition = ctx.Int(KafkaPartitionFlag.Name)
	}
	if ctx.IsSet(KafkaStartOffsetFlag.Name) {
		cfg.KafkaStartOffset = ctx.Int(KafkaStartOffsetFlag.Name)
	}
	if ctx.IsSet(CheckpointRedisAddrFlag.Name) {
		cfg.CheckpointRedisAddr = ctx.String(CheckpointRedisAddrFlag.Name)
	}
	if ctx.IsSet(CheckpointKeyFlag.Name) {
		cfg.CheckpointKey = ctx.String(CheckpointKeyFlag.Name)
	}
}

// loadJobConfig builds a jobConfig from defaults, an optional --config
// TOML file, and the flags the caller actually set, in that precedence
// order.
func loadJobConfig(ctx *cli.Context) (jobConfig, error) {
	cfg := defaultJobConfig()
	if file := ctx.String(ConfigFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return jobConfig{}, fmt.Errorf("chainetl: load config %s: %w", file, err)
		}
	}
	applyFlags(ctx, &cfg)
	return cfg, nil
}
