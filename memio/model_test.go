package memio

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Model", func() {
	var m *Model

	BeforeEach(func() {
		m = NewModelSize(1 << 20)
	})

	It("round-trips a write and read", func() {
		m.Write(0x100, []byte{1, 2, 3, 4})

		data, ok := m.Read(0x100, 4)
		Expect(ok).To(BeTrue())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("fails a read past the end of the backing array", func() {
		_, ok := m.Read(uint64(len(m.bytes))-2, 4)
		Expect(ok).To(BeFalse())
	})

	It("silently drops an out-of-range write", func() {
		m.Write(uint64(len(m.bytes)), []byte{1})
		// No panic, no visible effect; nothing further to assert.
	})

	It("round-trips a PTE through ReadDescriptor", func() {
		m.WritePTE(0x200, 0x1122_3344_5566_7788)

		value, ok := m.ReadDescriptor(0x200, 8)
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(uint64(0x1122_3344_5566_7788)))
	})

	It("rejects a ReadDescriptor call for a size other than 8", func() {
		_, ok := m.ReadDescriptor(0x200, 4)
		Expect(ok).To(BeFalse())
	})

	It("bump-allocates pages without reuse", func() {
		a := m.AllocatePage(4096)
		b := m.AllocatePage(4096)

		Expect(a).To(Equal(uint64(firstAllocAddr)))
		Expect(b).To(Equal(a + 4096))
	})

	It("returns 0 once the allocator runs out of memory", func() {
		small := NewModelSize(firstAllocAddr + 4096)

		first := small.AllocatePage(4096)
		Expect(first).To(Equal(uint64(firstAllocAddr)))

		second := small.AllocatePage(4096)
		Expect(second).To(Equal(uint64(0)))
	})
})
