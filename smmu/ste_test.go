package smmu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StreamTable", func() {
	It("returns a default invalid entry for an unconfigured stream", func() {
		st := NewStreamTable()
		ste := st.Get(7)
		Expect(ste.Valid).To(BeFalse())
	})

	It("returns the configured entry for a known stream", func() {
		st := NewStreamTable()
		st.Configure(7, StreamTableEntry{Valid: true, S1Enabled: true})

		ste := st.Get(7)
		Expect(ste.Valid).To(BeTrue())
		Expect(ste.S1Enabled).To(BeTrue())
	})
})

var _ = Describe("ContextTable", func() {
	It("keys on both StreamID and ASID", func() {
		ct := NewContextTable()
		ct.Configure(1, 10, ContextDescriptor{Valid: true, ASID: 10})
		ct.Configure(1, 20, ContextDescriptor{Valid: true, ASID: 20})

		cd := ct.Get(1, 10)
		Expect(cd.Valid).To(BeTrue())
		Expect(cd.ASID).To(Equal(ASID(10)))

		missing := ct.Get(2, 10)
		Expect(missing.Valid).To(BeFalse())
	})
})
