package config

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/smmu/smmu"
)

var _ = Describe("Load", func() {
	AfterEach(func() {
		os.Unsetenv(envTLBCapacity)
		os.Unsetenv(envCommandQueueCapacity)
		os.Unsetenv(envEventQueueCapacity)
	})

	It("returns the package defaults with no .env and no environment overrides", func() {
		cfg, err := Load("")

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(cfg).To(gomega.Equal(Default()))
	})

	It("overlays an environment variable over the default", func() {
		os.Setenv(envTLBCapacity, "256")

		cfg, err := Load("")

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(cfg.TLBCapacity).To(gomega.Equal(256))
		gomega.Expect(cfg.CommandQueueCapacity).To(gomega.Equal(smmu.DefaultCommandQueueCapacity))
	})

	It("reports an error for a malformed integer", func() {
		os.Setenv(envEventQueueCapacity, "not-a-number")

		_, err := Load("")

		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})

var _ = Describe("Config.ApplyTo", func() {
	It("wires its sizes into a Builder", func() {
		cfg := Config{TLBCapacity: 4, CommandQueueCapacity: 2, EventQueueCapacity: 2}
		mem := func(uint64, int) (uint64, bool) { return 0, false }

		s := cfg.ApplyTo(smmu.MakeBuilder().WithMemReader(mem)).Build()

		gomega.Expect(s).NotTo(gomega.BeNil())
	})
})
