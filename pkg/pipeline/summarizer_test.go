package pipeline

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/llm"
	querybotlogger "github.com/zubale/querybot/pkg/logger"
	"github.com/zubale/querybot/pkg/tokens"
	testutils "github.com/zubale/querybot/pkg/utils/test"
)

var _ = Describe("Summarizer", func() {
	var (
		completer *testutils.MockCompleter
		ctx       context.Context
	)

	// newSummarizer uses a tiny ceiling so tests can trigger
	// summarization with a handful of messages. The approximate counter
	// charges len/4 + 4 tokens per message.
	newSummarizer := func(maxTokens, maxSummaryTokens int) *Summarizer {
		return NewSummarizer(SummarizerConfig{
			Completer:        completer,
			Counter:          tokens.NewApproximateCounter(),
			MaxTokens:        maxTokens,
			MaxSummaryTokens: maxSummaryTokens,
			Logger:           querybotlogger.Nop(),
		})
	}

	BeforeEach(func() {
		completer = testutils.NewMockCompleter("condensed history summary")
		ctx = context.Background()
	})

	Context("when the history is under the ceiling", func() {
		It("leaves the state untouched and makes no model call", func() {
			state := conversation.NewState("c1")
			state.Append(llm.RoleUser, "Tell me about the sofa")
			state.Append(llm.RoleAssistant, "It is a 3-seater")

			before := state.Clone()

			s := newSummarizer(4096, 1024)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			Expect(state.Summary).To(Equal(before.Summary))
			Expect(state.TailMessages).To(Equal(before.TailMessages))
			Expect(state.Messages).To(Equal(before.Messages))
			Expect(completer.Requests).To(BeEmpty())
		})
	})

	Context("when the history exceeds the ceiling", func() {
		var state *conversation.State

		BeforeEach(func() {
			state = conversation.NewState("c1")
			// Three 100-char messages cost 29 tokens each, 87 total.
			filler := strings.Repeat("x", 100)
			state.Append(llm.RoleUser, filler)
			state.Append(llm.RoleAssistant, filler)
			state.Append(llm.RoleUser, filler)
		})

		It("folds older messages into the summary", func() {
			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			Expect(state.Summary).To(Equal("condensed history summary"))
			Expect(state.SummaryTokens).To(BeNumerically(">", 0))
			Expect(state.TailMessages).To(HaveLen(1))
			Expect(completer.Requests).To(HaveLen(1))
		})

		It("always keeps the most recent message in the tail", func() {
			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			last := state.Messages[len(state.Messages)-1]
			Expect(state.TailMessages[len(state.TailMessages)-1]).To(Equal(last))
		})

		It("does not shrink the raw history", func() {
			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())
			Expect(state.Messages).To(HaveLen(3))
		})

		It("sends the folded messages and summary instruction to the model", func() {
			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			req := completer.LastRequest()
			Expect(req.System).To(Equal(summarySystemInstruction))
			Expect(req.UserMessage).To(ContainSubstring("Conversation:"))
			Expect(req.Temperature).To(BeZero())
			Expect(req.MaxTokens).To(Equal(10))
		})

		It("includes the previous summary in subsequent condensations", func() {
			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			state.Append(llm.RoleAssistant, strings.Repeat("y", 100))
			state.Append(llm.RoleUser, strings.Repeat("z", 100))
			Expect(s.Summarize(ctx, state)).To(Succeed())

			req := completer.LastRequest()
			Expect(req.UserMessage).To(ContainSubstring("Previous summary:"))
		})
	})

	Context("when the model call fails", func() {
		var state *conversation.State

		BeforeEach(func() {
			completer.Fail = true
			state = conversation.NewState("c1")
			filler := strings.Repeat("x", 100)
			state.Append(llm.RoleUser, filler)
			state.Append(llm.RoleAssistant, filler)
			state.Append(llm.RoleUser, filler)
		})

		It("passes through raw history while under twice the ceiling", func() {
			// Combined 87 tokens, ceiling 50, degrade limit 100.
			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			Expect(state.Summary).To(BeEmpty())
			Expect(state.TailMessages).To(HaveLen(3))
		})

		It("fails the turn once past twice the ceiling", func() {
			state.Append(llm.RoleAssistant, strings.Repeat("y", 100))
			// Combined 116 tokens, degrade limit 100.
			s := newSummarizer(50, 10)
			err := s.Summarize(ctx, state)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("summarize stage"))
		})
	})

	Context("when only the latest message remains over budget", func() {
		It("passes through without a model call", func() {
			state := conversation.NewState("c1")
			state.Append(llm.RoleUser, strings.Repeat("x", 400))

			s := newSummarizer(50, 10)
			Expect(s.Summarize(ctx, state)).To(Succeed())

			Expect(state.Summary).To(BeEmpty())
			Expect(state.TailMessages).To(HaveLen(1))
			Expect(completer.Requests).To(BeEmpty())
		})
	})
})
