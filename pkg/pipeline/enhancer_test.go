package pipeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EnhanceQuery", func() {
	Context("with a question and prior context", func() {
		It("appends the context clause", func() {
			query := EnhanceQuery("And how much is it?", "Tell me about the sofa It is a 3-seater")
			Expect(query).To(Equal("And how much is it?. Previous context: Tell me about the sofa It is a 3-seater"))
		})
	})

	Context("with a question and no prior context", func() {
		It("omits the context clause entirely", func() {
			query := EnhanceQuery("Tell me about the sofa", "")
			Expect(query).To(Equal("Tell me about the sofa"))
			Expect(query).NotTo(ContainSubstring("Previous context"))
		})

		It("treats whitespace-only context as empty", func() {
			query := EnhanceQuery("Tell me about the sofa", "   ")
			Expect(query).To(Equal("Tell me about the sofa"))
		})
	})

	Context("with an empty question", func() {
		It("falls back to the prior context", func() {
			query := EnhanceQuery("", "Tell me about the sofa")
			Expect(query).To(Equal("Tell me about the sofa"))
		})

		It("falls back to the placeholder when there is no context either", func() {
			Expect(EnhanceQuery("", "")).To(Equal(PlaceholderQuery))
			Expect(EnhanceQuery("   ", "")).To(Equal(PlaceholderQuery))
		})
	})

	It("trims surrounding whitespace from the question", func() {
		Expect(EnhanceQuery("  How much?  ", "")).To(Equal("How much?"))
	})
})
