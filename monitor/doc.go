// Package monitor exposes a running smmu.SMMU's statistics, register
// file, and queued events over HTTP, for inspection while a long trace
// replay is in progress.
package monitor
