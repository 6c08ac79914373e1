package pipeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ClassifyContext", func() {
	Context("self-contained questions", func() {
		It("classifies a question naming a product as clear", func() {
			Expect(ClassifyContext("Tell me about the Annibale Colombo Sofa", "")).To(BeTrue())
		})

		It("classifies a greeting as clear", func() {
			Expect(ClassifyContext("Hello, can you help me?", "")).To(BeTrue())
		})

		It("ignores history for non-elliptical questions", func() {
			Expect(ClassifyContext("Do you ship to Mexico?", "some unrelated chatter")).To(BeTrue())
		})
	})

	Context("elliptical questions", func() {
		It("is ambiguous when the history names no product", func() {
			Expect(ClassifyContext("And how much does it cost?", "")).To(BeFalse())
			Expect(ClassifyContext("what about the warranty?", "hi there")).To(BeFalse())
		})

		It("is clear when the history names a product", func() {
			condensed := "Tell me about the Annibale Colombo Sofa It is a luxurious 3-seater"
			Expect(ClassifyContext("And how much does it cost?", condensed)).To(BeTrue())
		})

		It("grounds on category terms as well as product words", func() {
			Expect(ClassifyContext("is it in stock?", "I was looking at your electronics section")).To(BeTrue())
		})

		It("matches the lead-in case-insensitively", func() {
			Expect(ClassifyContext("AND HOW MUCH IS IT?", "")).To(BeFalse())
		})

		It("matches indicators in the history case-insensitively", func() {
			Expect(ClassifyContext("and how much is it?", "THE SOFA WE DISCUSSED")).To(BeTrue())
		})
	})

	It("is deterministic for identical inputs", func() {
		for i := 0; i < 10; i++ {
			Expect(ClassifyContext("And how much does it cost?", "the sofa")).To(BeTrue())
			Expect(ClassifyContext("And how much does it cost?", "nothing relevant")).To(BeFalse())
		}
	})
})
