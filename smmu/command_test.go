package smmu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CommandQueue", func() {
	It("drains commands in submission order", func() {
		q := NewCommandQueue(4)
		q.Submit(Command{Type: CmdSync})
		q.Submit(Command{Type: CmdTLBINHAll})

		drained := q.Drain()

		Expect(drained).To(HaveLen(2))
		Expect(drained[0].Type).To(Equal(CmdSync))
		Expect(drained[1].Type).To(Equal(CmdTLBINHAll))
		Expect(q.Len()).To(Equal(0))
	})

	It("drops a command silently once the queue is full", func() {
		q := NewCommandQueue(1)
		q.Submit(Command{Type: CmdSync})
		q.Submit(Command{Type: CmdTLBINHAll})

		Expect(q.Len()).To(Equal(1))
		Expect(q.Drain()[0].Type).To(Equal(CmdSync))
	})
})
