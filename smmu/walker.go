package smmu


// MemReadFunc reads size bytes at phys, returning the little-endian value
// and whether the read succeeded. The walker only ever asks for 8-byte
// descriptors. A read must be safe to call with any physical address and
// must return ok=false (never panic) for an out-of-range address.
type MemReadFunc func(phys PAddr, size int) (value uint64, ok bool)

const descriptorSize = 8

// Walker decodes ARMv8-A long-descriptor page tables by repeatedly reading
// and decoding PTEs through a caller-supplied MemReadFunc.
type Walker struct {
	read MemReadFunc
}

// NewWalker returns a Walker that fetches descriptors through read.
func NewWalker(read MemReadFunc) *Walker {
	return &Walker{read: read}
}

// granuleBits is the log2 of the descriptor granule, one of 12 (4KiB), 14
// (16KiB), or 16 (64KiB).
type granuleBits = uint8

func startAndMaxLevel(granule granuleBits) (start, max int, ok bool) {
	switch granule {
	case 12, 14:
		return 0, 3, true
	case 16:
		return 1, 3, true
	default:
		return 0, 0, false
	}
}

// blockPageSize returns the page size a terminal descriptor at level
// produces for the given granule, per §4.1's table.
func blockPageSize(level int, granule granuleBits) PageSize {
	switch granule {
	case 12:
		switch level {
		case 0:
			return Size512MiB
		case 1:
			return Size2MiB
		default:
			return Size4KiB
		}
	case 14:
		switch level {
		case 0:
			return Size1GiB
		case 1:
			return Size32MiB
		default:
			return Size16KiB
		}
	case 16:
		switch level {
		case 1:
			return Size512MiB
		default:
			return Size64KiB
		}
	default:
		return Size4KiB
	}
}

func indexBits(va VAddr, level int, granule granuleBits) uint64 {
	bitsPerLevel := granule - 3
	shift := uint64(granule) + uint64(3-level)*uint64(bitsPerLevel)
	mask := (uint64(1) << bitsPerLevel) - 1

	return (va >> shift) & mask
}

func descriptorAddress(tableBase PAddr, index uint64) PAddr {
	return tableBase + index*descriptorSize
}

// Translate walks the page table rooted at ttb, translating va at the
// given granule and stage. ipsBits is carried through for completeness but
// is not used to bound addresses, matching the reference model's behavior.
func (w *Walker) Translate(
	va VAddr,
	ttb PAddr,
	granule granuleBits,
	ipsBits uint8,
	stage Stage,
) TranslationResult {
	_ = ipsBits
	_ = stage

	startLevel, maxLevel, ok := startAndMaxLevel(granule)
	if !ok {
		return TranslationResult{FaultReason: "Invalid granule size"}
	}

	tableBase := ttb
	for level := startLevel; level <= maxLevel; level++ {
		index := indexBits(va, level, granule)
		descAddr := descriptorAddress(tableBase, index)

		raw, ok := w.read(descAddr, descriptorSize)
		if !ok {
			return TranslationResult{FaultReason: "Failed to read descriptor"}
		}

		desc := decodeDescriptor(raw, level)
		if !desc.Valid {
			return TranslationResult{
				FaultReason: "Translation fault: invalid descriptor",
			}
		}

		if !desc.IsTable {
			pageSize := blockPageSize(level, granule)

			return TranslationResult{
				Success:    true,
				PhysAddr:   desc.OutputAddress + pageSize.Offset(va),
				Permission: desc.Permission,
				MemoryType: desc.MemoryAttr,
				Cacheable:  desc.MemoryAttr.Cacheable(),
				Shareable:  desc.Shareable,
				PageSize:   pageSize,
			}
		}

		tableBase = desc.OutputAddress
	}

	return TranslationResult{
		FaultReason: "Translation fault: exceeded max level",
	}
}
