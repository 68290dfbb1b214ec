package main

import "github.com/sarchlab/smmu/memio"

// pageTableManager builds a 4-level, 4KiB-granule ARMv8-A page table
// directly in a memio.Model, allocating each level's table lazily as map
// calls touch it. One instance owns one root table, i.e. one address
// space (ASID).
type pageTableManager struct {
	mem    *memio.Model
	rootPA uint64
}

// accessPermission mirrors the AP[2:1] distinction the walker decodes.
type accessPermission int

const (
	permReadWrite accessPermission = iota
	permReadOnly
)

func newPageTableManager(mem *memio.Model) *pageTableManager {
	return &pageTableManager{mem: mem, rootPA: mem.AllocatePage(4096)}
}

func (p *pageTableManager) rootPhysAddr() uint64 { return p.rootPA }

// mapPage installs a 4KiB leaf mapping from va to pa with the given
// permission, allocating any intermediate table that doesn't exist yet.
func (p *pageTableManager) mapPage(va, pa uint64, ap accessPermission) {
	l0 := p.descend(p.rootPA, (va>>39)&0x1FF)
	l1 := p.descend(l0, (va>>30)&0x1FF)
	l2 := p.descend(l1, (va>>21)&0x1FF)

	l3EntryAddr := l2 + ((va>>12)&0x1FF)*8

	// PA | AF | Valid | Page.
	desc := (pa &^ 0xFFF) | (1 << 10) | 3
	if ap == permReadOnly {
		desc |= 1 << 7 // AP[2] = 1 (read-only at EL1)
	}

	p.mem.WritePTE(l3EntryAddr, desc)
}

// descend reads the table descriptor at tablePA+index*8, allocating and
// installing a new next-level table if the entry is not yet valid, and
// returns the next-level table's base address.
func (p *pageTableManager) descend(tablePA, index uint64) uint64 {
	entryAddr := tablePA + index*8

	desc, ok := p.mem.ReadDescriptor(entryAddr, 8)
	if !ok || desc&1 == 0 {
		next := p.mem.AllocatePage(4096)
		desc = next | 3 // Table descriptor, valid.
		p.mem.WritePTE(entryAddr, desc)
	}

	return desc &^ 0xFFF
}
