package pipeline

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/conversation/inmemory"
	"github.com/zubale/querybot/pkg/llm"
	querybotlogger "github.com/zubale/querybot/pkg/logger"
	"github.com/zubale/querybot/pkg/tokens"
	testutils "github.com/zubale/querybot/pkg/utils/test"
	"github.com/zubale/querybot/pkg/vector"
)

var _ = Describe("Pipeline", func() {
	var (
		store        *inmemory.Store
		completer    *testutils.MockCompleter
		embedder     *testutils.MockEmbedder
		vectorDriver *testutils.MockVectorDriver
		p            *Pipeline
		ctx          context.Context
	)

	BeforeEach(func() {
		logger := querybotlogger.Nop()
		store = inmemory.NewStore(inmemory.Config{})
		completer = testutils.NewMockCompleter("The Annibale Colombo Sofa costs $999.")
		embedder = testutils.NewMockEmbedder()
		vectorDriver = testutils.NewMockVectorDriver()
		vectorDriver.Results = []vector.QueryResult{
			{Document: vector.Document{
				ID:      "product_1",
				Content: "Annibale Colombo Sofa. Spec sheet with price $999",
			}, Score: 0.92},
		}
		ctx = context.Background()

		p = NewPipeline(Config{
			Store: store,
			Summarizer: NewSummarizer(SummarizerConfig{
				Completer: completer,
				Counter:   tokens.NewApproximateCounter(),
				Logger:    logger,
			}),
			Retriever: NewRetriever(RetrieverConfig{
				Embedder: embedder,
				Driver:   vectorDriver,
				Logger:   logger,
			}),
			Responder: NewResponder(completer, logger),
			Logger:    logger,
		})
	})

	Context("input validation", func() {
		It("rejects an empty conversation id", func() {
			_, err := p.Run(ctx, "", "How much is the sofa?")
			Expect(err).To(MatchError(ErrValidation))
		})

		It("rejects an empty query", func() {
			_, err := p.Run(ctx, "u1", "")
			Expect(err).To(MatchError(ErrValidation))
		})
	})

	Context("a first turn", func() {
		It("answers and persists the exchange", func() {
			turn, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())
			Expect(turn.Generation).To(Equal("The Annibale Colombo Sofa costs $999."))

			state, err := store.Load(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Messages).To(HaveLen(2))
			Expect(state.Messages[0].Role).To(Equal(llm.RoleUser))
			Expect(state.Messages[1].Role).To(Equal(llm.RoleAssistant))
		})

		It("embeds the enhanced query for retrieval", func() {
			turn, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())
			Expect(embedder.Calls).To(ContainElement(turn.EnhancedQuery))
			Expect(turn.EnhancedQuery).To(ContainSubstring("Previous context"))
		})

		It("classifies a product-naming question as clear", func() {
			turn, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())
			Expect(turn.HasClearContext).To(BeTrue())
		})
	})

	Context("a follow-up turn", func() {
		BeforeEach(func() {
			_, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())
		})

		It("grounds an elliptical question in the prior turn", func() {
			turn, err := p.Run(ctx, "u1", "And how much does it cost?")
			Expect(err).NotTo(HaveOccurred())
			Expect(turn.HasClearContext).To(BeTrue())
			Expect(turn.EnhancedQuery).To(ContainSubstring("Previous context"))
			Expect(turn.EnhancedQuery).To(ContainSubstring("Annibale Colombo Sofa"))
		})

		It("grows the history by one exchange per turn", func() {
			_, err := p.Run(ctx, "u1", "And how much does it cost?")
			Expect(err).NotTo(HaveOccurred())

			state, err := store.Load(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Messages).To(HaveLen(4))
		})
	})

	Context("conversation isolation", func() {
		It("asks for clarification when another user sends the same follow-up", func() {
			_, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())

			turn, err := p.Run(ctx, "u2", "And how much does it cost?")
			Expect(err).NotTo(HaveOccurred())
			Expect(turn.HasClearContext).To(BeFalse())

			req := completer.LastRequest()
			Expect(req.System).To(ContainSubstring("Ask the user to specify which product"))
		})

		It("keeps histories separate", func() {
			_, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())
			_, err = p.Run(ctx, "u2", "Do you sell laptops?")
			Expect(err).NotTo(HaveOccurred())

			s1, err := store.Load(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			s2, err := store.Load(ctx, "u2")
			Expect(err).NotTo(HaveOccurred())

			Expect(s1.Messages[0].Content).To(ContainSubstring("Sofa"))
			Expect(s2.Messages[0].Content).To(ContainSubstring("laptops"))
			Expect(s1.Messages).To(HaveLen(2))
			Expect(s2.Messages).To(HaveLen(2))
		})
	})

	Context("turn atomicity", func() {
		It("persists nothing when retrieval fails", func() {
			vectorDriver.FailQuery = true

			_, err := p.Run(ctx, "u1", "Tell me about the sofa")
			Expect(err).To(HaveOccurred())

			_, err = store.Load(ctx, "u1")
			Expect(err).To(MatchError(conversation.ErrNotFound))
		})

		It("leaves the previous state intact when a later turn fails", func() {
			_, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
			Expect(err).NotTo(HaveOccurred())

			completer.Fail = true
			_, err = p.Run(ctx, "u1", "And how much does it cost?")
			Expect(err).To(HaveOccurred())

			state, err := store.Load(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Messages).To(HaveLen(2))
		})
	})

	Context("concurrent turns", func() {
		It("serializes turns on the same conversation", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := p.Run(ctx, "u1", "Tell me about the Annibale Colombo Sofa")
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()

			state, err := store.Load(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Messages).To(HaveLen(16))
		})
	})
})
