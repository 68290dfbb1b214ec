package smmu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Walker", func() {
	var (
		mem *flatMemory
		w   *Walker
	)

	BeforeEach(func() {
		mem = newFlatMemory()
		w = NewWalker(mem.read)
	})

	It("rejects an unsupported granule", func() {
		result := w.Translate(0x1000, 0x100000, 20, 48, Stage1)

		Expect(result.Success).To(BeFalse())
		Expect(result.FaultReason).To(Equal("Invalid granule size"))
	})

	It("faults when a descriptor read fails", func() {
		result := w.Translate(0x1000, 0x100000, 12, 48, Stage1)

		Expect(result.Success).To(BeFalse())
		Expect(result.FaultReason).To(Equal("Failed to read descriptor"))
	})

	It("faults on an invalid descriptor", func() {
		mem.setDescriptor(0x100000, 0x0)

		result := w.Translate(0x0, 0x100000, 12, 48, Stage1)

		Expect(result.Success).To(BeFalse())
		Expect(result.FaultReason).To(Equal("Translation fault: invalid descriptor"))
	})

	It("walks all four levels of a 4KiB-granule table to a page", func() {
		const va VAddr = 0x8080604123

		mem.setDescriptor(0x100008, 0x200000|0x3) // level 0, index 1
		mem.setDescriptor(0x200010, 0x300000|0x3) // level 1, index 2
		mem.setDescriptor(0x300018, 0x400000|0x3) // level 2, index 3
		mem.setDescriptor(0x400020, 0x500000|0x1|(0x6<<2)) // level 3, index 4

		result := w.Translate(va, 0x100000, 12, 48, Stage1)

		Expect(result.Success).To(BeTrue())
		Expect(result.PhysAddr).To(Equal(PAddr(0x500123)))
		Expect(result.PageSize).To(Equal(Size4KiB))
		Expect(result.MemoryType).To(Equal(NormalWB))
		Expect(result.Cacheable).To(BeTrue())
	})

	It("terminates early at a block descriptor", func() {
		// level 0 descriptor is a block (bit 1 clear): 1GiB block with 16KiB granule.
		mem.setDescriptor(0x100000, 0x600000|0x1)

		result := w.Translate(0x12345, 0x100000, 14, 48, Stage1)

		Expect(result.Success).To(BeTrue())
		Expect(result.PageSize).To(Equal(Size1GiB))
		Expect(result.PhysAddr).To(Equal(PAddr(0x600000 + 0x12345)))
	})
})
