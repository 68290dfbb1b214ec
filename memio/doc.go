// Package memio provides a bounds-checked flat physical memory model and
// a bump allocator for page-table pages, exposed to the smmu core through
// a MemReadFunc-shaped adapter.
package memio
