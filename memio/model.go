package memio

import "encoding/binary"

// DefaultSize is the backing array size NewModel uses (NewModelSize takes
// an explicit size), matching the reference model's 256MB flat address space.
const DefaultSize = 256 * 1024 * 1024

// firstAllocAddr reserves the low addresses, the way the reference model
// starts its bump allocator at 0x1000 rather than 0.
const firstAllocAddr = 0x1000

// Model is a flat, bounds-checked physical memory backing store with a
// bump allocator for page-table pages. It never panics on an
// out-of-range access: Read reports failure, Write is a silent no-op.
type Model struct {
	bytes     []byte
	nextAlloc uint64
}

// NewModel returns an empty Model of DefaultSize bytes.
func NewModel() *Model {
	return NewModelSize(DefaultSize)
}

// NewModelSize returns an empty Model of the given size in bytes.
func NewModelSize(size int) *Model {
	return &Model{
		bytes:     make([]byte, size),
		nextAlloc: firstAllocAddr,
	}
}

// Write copies data into physical memory at addr. Out-of-range writes are
// silently dropped, matching the reference model's bounds check.
func (m *Model) Write(addr uint64, data []byte) {
	if addr+uint64(len(data)) > uint64(len(m.bytes)) {
		return
	}

	copy(m.bytes[addr:], data)
}

// Read copies size bytes from physical memory at addr. It returns nil and
// false if the range is out of bounds.
func (m *Model) Read(addr uint64, size int) ([]byte, bool) {
	if addr+uint64(size) > uint64(len(m.bytes)) {
		return nil, false
	}

	out := make([]byte, size)
	copy(out, m.bytes[addr:addr+uint64(size)])

	return out, true
}

// WritePTE writes a 64-bit little-endian page-table entry at addr.
func (m *Model) WritePTE(addr uint64, pte uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], pte)
	m.Write(addr, buf[:])
}

// AllocatePage bumps the allocator forward by size bytes and returns the
// address of the allocation, or 0 if the model is out of memory. It never
// reuses an address: matching the reference model, there is no free.
func (m *Model) AllocatePage(size int) uint64 {
	addr := m.nextAlloc
	next := addr + uint64(size)

	if next > uint64(len(m.bytes)) {
		return 0
	}

	m.nextAlloc = next

	return addr
}

// ReadDescriptor reads size bytes at phys as a little-endian integer. Its
// signature matches smmu.MemReadFunc so it can be passed directly to
// smmu's Builder.WithMemReader.
func (m *Model) ReadDescriptor(phys uint64, size int) (uint64, bool) {
	if size != 8 {
		return 0, false
	}

	data, ok := m.Read(phys, size)
	if !ok {
		return 0, false
	}

	return binary.LittleEndian.Uint64(data), true
}
