// Package domain holds the two-level raw/enriched record types extracted
// from a Klaytn block: Block, Transaction, Receipt, ReceiptLog, Trace,
// Contract, Token and TokenTransfer. Each type is a plain struct rather
// than a property-setter object: a constructor validates its required
// fields (address/hash shape, non-negative counters, enum ranges) and
// returns (T, error); an optional *Enrichment field carries the derived
// data a later pass (trace walking, token classification) adds on top of
// the raw RPC payload.
package domain

import (
	"fmt"
	"math/big"
	"time"
)

func nonNegativeInt(field string, v int64) error {
	if v < 0 {
		return fmt.Errorf("%s must be a non-negative integer, got %d", field, v)
	}
	return nil
}

func requireAddress(field, v string) error {
	if len(v) != 42 {
		return fmt.Errorf("%s must be a 42-character address, got %q", field, v)
	}
	return nil
}

func requireHash(field, v string) error {
	if len(v) != 66 {
		return fmt.Errorf("%s must be a 66-character hash, got %q", field, v)
	}
	return nil
}

func optionalAddress(field, v string) error {
	if v == "" {
		return nil
	}
	return requireAddress(field, v)
}

// BlockTimestamp converts a fractional unix-seconds value (seconds plus
// 0.001*FoS) into a time.Time the way the teacher's float_to_datetime did.
func BlockTimestamp(unixSeconds float64) time.Time {
	whole := int64(unixSeconds)
	nanos := int64((unixSeconds - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nanos).UTC()
}

var zeroBig = big.NewInt(0)
