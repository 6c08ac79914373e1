package pipeline

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/llm"
	querybotlogger "github.com/zubale/querybot/pkg/logger"
	testutils "github.com/zubale/querybot/pkg/utils/test"
	"github.com/zubale/querybot/pkg/vector"
)

var _ = Describe("Responder", func() {
	var (
		completer *testutils.MockCompleter
		responder *Responder
		ctx       context.Context
	)

	newTurn := func(question string, clear bool) *Turn {
		state := conversation.NewState("c1")
		state.Append(llm.RoleUser, question)
		return &Turn{
			ConversationID:  "c1",
			State:           state,
			HasClearContext: clear,
			Documents: []vector.QueryResult{
				{Document: vector.Document{
					ID:       "product_1",
					Content:  "Annibale Colombo Sofa. Spec sheet with price $999",
					Metadata: map[string]any{"brand": "Annibale Colombo", "price": 999.0},
				}, Score: 0.9},
			},
		}
	}

	BeforeEach(func() {
		completer = testutils.NewMockCompleter("The sofa costs $999.")
		responder = NewResponder(completer, querybotlogger.Nop())
		ctx = context.Background()
	})

	Context("with clear context", func() {
		It("uses the grounded instruction with the retrieved documents", func() {
			turn := newTurn("How much is the sofa?", true)
			Expect(responder.Respond(ctx, turn)).To(Succeed())

			req := completer.LastRequest()
			Expect(req.System).To(ContainSubstring("based *only* on the conversation history"))
			Expect(req.System).To(ContainSubstring("Spec sheet with price $999"))
			Expect(req.Temperature).To(BeZero())
		})

		It("records the answer and appends it to the history", func() {
			turn := newTurn("How much is the sofa?", true)
			Expect(responder.Respond(ctx, turn)).To(Succeed())

			Expect(turn.Generation).To(Equal("The sofa costs $999."))
			last := turn.State.Messages[len(turn.State.Messages)-1]
			Expect(last.Role).To(Equal(llm.RoleAssistant))
			Expect(last.Content).To(Equal("The sofa costs $999."))
		})

		It("sends the summarized history as prior turns", func() {
			turn := newTurn("How much is the sofa?", true)
			turn.State.Summary = "User asked about the sofa"
			Expect(responder.Respond(ctx, turn)).To(Succeed())

			req := completer.LastRequest()
			Expect(req.PriorTurns[0].Role).To(Equal(llm.RoleSystem))
			Expect(req.PriorTurns[0].Content).To(ContainSubstring("User asked about the sofa"))
		})
	})

	Context("with ambiguous context", func() {
		It("uses the clarification instruction", func() {
			turn := newTurn("And how much does it cost?", false)
			Expect(responder.Respond(ctx, turn)).To(Succeed())

			req := completer.LastRequest()
			Expect(req.System).To(ContainSubstring("Ask the user to specify which product"))
			Expect(req.System).To(ContainSubstring("do not answer the question"))
		})

		It("still includes the retrieved context block", func() {
			turn := newTurn("And how much does it cost?", false)
			Expect(responder.Respond(ctx, turn)).To(Succeed())

			Expect(completer.LastRequest().System).To(ContainSubstring("CONTEXT:"))
		})
	})

	Context("with a whitespace-only question", func() {
		It("substitutes the placeholder question", func() {
			turn := newTurn("   ", true)
			Expect(responder.Respond(ctx, turn)).To(Succeed())

			Expect(completer.LastRequest().UserMessage).To(Equal(PlaceholderQuestion))
		})
	})

	Context("when the model call fails", func() {
		It("returns the error and leaves the history unchanged", func() {
			completer.Fail = true
			turn := newTurn("How much is the sofa?", true)

			err := responder.Respond(ctx, turn)
			Expect(err).To(HaveOccurred())
			Expect(turn.Generation).To(BeEmpty())
			Expect(turn.State.Messages).To(HaveLen(1))
		})
	})
})

var _ = Describe("BuildContext", func() {
	It("renders documents in rank order with metadata", func() {
		docs := []vector.QueryResult{
			{Document: vector.Document{Content: "first doc", Metadata: map[string]any{"b": 2, "a": 1}}},
			{Document: vector.Document{Content: "second doc"}},
		}

		out := BuildContext(docs)
		Expect(out).To(Equal("[1] first doc\nMETA: a=1, b=2\n\n[2] second doc\nMETA: "))
	})

	It("renders an empty list as an empty string", func() {
		Expect(BuildContext(nil)).To(Equal(""))
	})
})
