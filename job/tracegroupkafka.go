package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaiachain/chainetl/checkpoint"
	"github.com/kaiachain/chainetl/export"
	"github.com/kaiachain/chainetl/kafkabroker"
	"github.com/kaiachain/chainetl/log"
	"github.com/kaiachain/chainetl/rpc"
	"github.com/kaiachain/chainetl/segment"
	"github.com/kaiachain/chainetl/tracewalk"
)

var traceKafkaLogger = log.NewModuleLogger("job.tracegroupkafka")

// wireTracePayload is the JSON shape a segmented Kafka message
// reassembles into: one block's worth of call-trace roots, keyed by
// block number so this job can filter to [Start, End] before spending
// an RPC round trip on the matching block body.
type wireTracePayload struct {
	BlockNumber uint64                `json:"blockNumber"`
	Frames      []tracewalk.CallFrame `json:"frames"`
}

// defaultPollTimeout bounds each blocking read against the partition
// consumer, so a tail read that finds nothing new can be distinguished
// from a read that is still waiting on data the producer hasn't
// published yet.
const defaultPollTimeout = 5 * time.Second

// TraceGroupKafkaJob exports traces/contracts/tokens for [Start, End]
// sourced from a segmented Kafka topic instead of debug_traceBlockByNumber,
// per spec §4.9's Kafka variant.
type TraceGroupKafkaJob struct {
	Start, End uint64
	Consumer   *kafkabroker.PartitionConsumer
	Dialer     rpc.Dialer
	Exporter   *export.MultiExporter
	Flags      TraceRangeFlags

	// Checkpoint persists the last processed offset under CheckpointKey
	// so an outer driver can resume this job after a restart at exactly
	// the offset it last committed (spec §4.9's "publishes its last
	// processed partition/offset").
	Checkpoint    checkpoint.Store
	CheckpointKey string

	// PollTimeout overrides defaultPollTimeout; zero keeps the default.
	PollTimeout time.Duration
}

// Run drains the partition consumer, reassembling and exporting trace
// payloads for every block in [Start, End], looping on an empty tail
// read until the maximum block number seen covers End.
func (j *TraceGroupKafkaJob) Run(ctx context.Context) error {
	if err := j.Flags.validate(); err != nil {
		return err
	}
	if j.Start > j.End {
		return fmt.Errorf("job: invalid range [%d, %d]", j.Start, j.End)
	}

	pollTimeout := j.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	client := j.Dialer()
	buffer := segment.NewBuffer()

	var maxBlockSeen uint64
	runErr := func() error {
		for maxBlockSeen < j.End {
			pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
			seg, offset, err := j.Consumer.Next(pollCtx)
			cancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					traceKafkaLogger.Debug("tail read found nothing new", "maxBlockSeen", maxBlockSeen, "end", j.End)
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}

			buffer.Insert(seg)
			for _, reassembled := range buffer.Drain() {
				if reassembled.BlockNumber > maxBlockSeen {
					maxBlockSeen = reassembled.BlockNumber
				}
				if reassembled.BlockNumber < j.Start || reassembled.BlockNumber > j.End {
					continue
				}
				if err := j.exportPayload(ctx, client, reassembled.Payload); err != nil {
					return err
				}
			}

			if j.Checkpoint != nil {
				if err := j.Checkpoint.WriteOffset(ctx, j.CheckpointKey, offset); err != nil {
					return fmt.Errorf("job: write checkpoint: %w", err)
				}
			}
		}
		return nil
	}()

	closeErr := j.Exporter.Close(ctx)
	if runErr != nil {
		return runErr
	}
	return closeErr
}

func (j *TraceGroupKafkaJob) exportPayload(ctx context.Context, client *rpc.Client, payload []byte) error {
	var wire wireTracePayload
	if err := json.Unmarshal(payload, &wire); err != nil {
		return fmt.Errorf("job: decode trace payload: %w", err)
	}

	headers, err := fetchBlockHeaders(ctx, client, []uint64{wire.BlockNumber})
	if err != nil {
		return err
	}
	header, ok := headers[wire.BlockNumber]
	if !ok {
		return fmt.Errorf("job: no block body for block %d", wire.BlockNumber)
	}

	return deriveAndExportBlockTraces(ctx, header, wire.Frames, j.Flags, client, j.Exporter)
}
