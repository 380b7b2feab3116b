// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package engine

import (
	"errors"
	"time"
)

// defines the PTP transaction-engine configuration range
const (
	// "bulk read/write" default 5s timeout range [1s, 120s]. §4.G.
	BulkTimeoutMin = 1 * time.Second
	BulkTimeoutMax = 120 * time.Second

	// chunk size for spanning bulk reads/writes of large data phases.
	// §4.C "Large data containers may span many bulk reads."
	ChunkSizeMin = 512
	ChunkSizeMax = 1 << 20 // 1 MiB

	// STALL recovery status-poll budget. §4.G "Poll ... up to 10 times
	// at 50 ms".
	StallPollAttemptsMin = 1
	StallPollAttemptsMax = 100
	StallPollIntervalMin = 1 * time.Millisecond
	StallPollIntervalMax = 1 * time.Second
)

// Config defines the transaction engine's timeout and retry behavior.
// The zero value is not valid; call Valid to apply PTP's documented
// defaults to every unspecified field.
type Config struct {
	// BulkTimeout bounds a single bulk-IN read or bulk-OUT write.
	// Default 5s. Callers may override per operation (GetObject
	// commonly uses 30-50s) via Request.Timeout on Do.
	BulkTimeout time.Duration

	// ChunkSize is the read/write chunk used to span large data
	// phases. Default 64 KiB, per §4.C.
	ChunkSize int

	// StallPollAttempts bounds the Get_Device_Status poll loop during
	// STALL recovery. Default 10.
	StallPollAttempts int

	// StallPollInterval is the delay between Get_Device_Status polls
	// during STALL recovery. Default 50ms.
	StallPollInterval time.Duration

	// LargeTransferThreshold is the outgoing data-phase size above
	// which the engine chunks writes instead of issuing one bulk-OUT
	// call. Default 1 MiB, per §4.G.
	LargeTransferThreshold int
}

// Valid applies the PTP-documented default for each unspecified field
// and rejects values outside their documented range.
func (c *Config) Valid() error {
	if c == nil {
		return errors.New("engine: nil config")
	}

	if c.BulkTimeout == 0 {
		c.BulkTimeout = 5 * time.Second
	} else if c.BulkTimeout < BulkTimeoutMin || c.BulkTimeout > BulkTimeoutMax {
		return errors.New("engine: BulkTimeout not in [1s, 120s]")
	}

	if c.ChunkSize == 0 {
		c.ChunkSize = 64 * 1024
	} else if c.ChunkSize < ChunkSizeMin || c.ChunkSize > ChunkSizeMax {
		return errors.New("engine: ChunkSize not in [512B, 1MiB]")
	}

	if c.StallPollAttempts == 0 {
		c.StallPollAttempts = 10
	} else if c.StallPollAttempts < StallPollAttemptsMin || c.StallPollAttempts > StallPollAttemptsMax {
		return errors.New("engine: StallPollAttempts not in [1, 100]")
	}

	if c.StallPollInterval == 0 {
		c.StallPollInterval = 50 * time.Millisecond
	} else if c.StallPollInterval < StallPollIntervalMin || c.StallPollInterval > StallPollIntervalMax {
		return errors.New("engine: StallPollInterval not in [1ms, 1s]")
	}

	if c.LargeTransferThreshold == 0 {
		c.LargeTransferThreshold = 1 << 20
	}

	return nil
}

// DefaultConfig returns the PTP-documented defaults (5s bulk timeout,
// 64 KiB chunks, 10 STALL polls at 50ms, 1 MiB large-transfer
// threshold).
func DefaultConfig() Config {
	return Config{
		BulkTimeout:            5 * time.Second,
		ChunkSize:              64 * 1024,
		StallPollAttempts:      10,
		StallPollInterval:      50 * time.Millisecond,
		LargeTransferThreshold: 1 << 20,
	}
}
