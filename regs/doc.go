// Package regs models the SMMU's memory-mapped register file: a sparse
// 32-bit store with the side effects spec.md describes for CR0/CR0ACK,
// IRQ_CTRL/IRQ_CTRLACK, read-only identification registers, and 64-bit
// registers accessed as two consecutive 32-bit cells.
package regs
