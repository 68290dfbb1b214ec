// Package smmu provides a functional model of an ARM-style System Memory
// Management Unit: multi-level page-table walking, a TLB, Stream Table and
// Context Descriptor lookups, a two-stage translation pipeline, and the
// command/event queues that drive invalidation and fault reporting.
package smmu
