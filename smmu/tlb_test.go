package smmu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TLB", func() {
	var tlb *TLB

	BeforeEach(func() {
		tlb = NewTLB(2)
	})

	entry := func(va VAddr, size PageSize) TLBEntry {
		return TLBEntry{
			VABase:   size.AlignDown(va),
			PA:       0x1000,
			StreamID: 1,
			ASID:     1,
			VMID:     0,
			PageSize: size,
		}
	}

	It("misses on an empty TLB", func() {
		_, hit := tlb.Lookup(0x1000, 1, 1, 0)
		Expect(hit).To(BeFalse())
		Expect(tlb.Misses()).To(Equal(uint64(1)))
	})

	It("hits after an insert at the matching page size", func() {
		tlb.Insert(entry(0x4000, Size4KiB))

		got, hit := tlb.Lookup(0x4000, 1, 1, 0)
		Expect(hit).To(BeTrue())
		Expect(got.PA).To(Equal(PAddr(0x1000)))
		Expect(tlb.Hits()).To(Equal(uint64(1)))
	})

	It("does not return a smaller entry for an access that only shares its base at a larger alignment", func() {
		// A 4KiB entry based at 0 has the same key as the 1GiB-, 2MiB- and
		// 64KiB-aligned base of VA 0x4000, so a "first probe that hits wins"
		// lookup would return it. Tightened Lookup rejects this because the
		// stored entry's own PageSize must equal the probed candidate size.
		tlb.Insert(entry(0x0, Size4KiB))

		_, hit := tlb.Lookup(0x4000, 1, 1, 0)
		Expect(hit).To(BeFalse())
	})

	It("evicts the least recently used entry once at capacity", func() {
		tlb.Insert(entry(0x1000, Size4KiB))
		tlb.Insert(entry(0x2000, Size4KiB))
		Expect(tlb.Len()).To(Equal(2))

		tlb.Insert(entry(0x3000, Size4KiB))
		Expect(tlb.Len()).To(Equal(2))

		_, hit := tlb.Lookup(0x1000, 1, 1, 0)
		Expect(hit).To(BeFalse())

		_, hit = tlb.Lookup(0x3000, 1, 1, 0)
		Expect(hit).To(BeTrue())
	})

	It("refreshes recency on lookup so a hit entry survives eviction", func() {
		tlb.Insert(entry(0x1000, Size4KiB))
		tlb.Insert(entry(0x2000, Size4KiB))

		_, _ = tlb.Lookup(0x1000, 1, 1, 0) // touch 0x1000, making 0x2000 the LRU

		tlb.Insert(entry(0x3000, Size4KiB))

		_, hit := tlb.Lookup(0x2000, 1, 1, 0)
		Expect(hit).To(BeFalse())

		_, hit = tlb.Lookup(0x1000, 1, 1, 0)
		Expect(hit).To(BeTrue())
	})

	It("invalidates every entry on InvalidateAll", func() {
		tlb.Insert(entry(0x1000, Size4KiB))
		tlb.InvalidateAll()

		Expect(tlb.Len()).To(Equal(0))
	})

	It("invalidates only entries matching the ASID on InvalidateASID", func() {
		e1 := entry(0x1000, Size4KiB)
		e2 := entry(0x2000, Size4KiB)
		e2.ASID = 2

		tlb.Insert(e1)
		tlb.Insert(e2)
		tlb.InvalidateASID(1)

		_, hit := tlb.Lookup(0x1000, 1, 1, 0)
		Expect(hit).To(BeFalse())

		_, hit = tlb.Lookup(0x2000, 1, 2, 0)
		Expect(hit).To(BeTrue())
	})

	It("invalidates a single VA under InvalidateVA without touching others", func() {
		tlb.Insert(entry(0x1000, Size4KiB))
		tlb.Insert(entry(0x2000, Size4KiB))

		tlb.InvalidateVA(0x1000, 1)

		_, hit := tlb.Lookup(0x1000, 1, 1, 0)
		Expect(hit).To(BeFalse())

		_, hit = tlb.Lookup(0x2000, 1, 1, 0)
		Expect(hit).To(BeTrue())
	})
})
