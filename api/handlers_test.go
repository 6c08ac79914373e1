package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zubale/querybot/pkg/conversation/inmemory"
	querybotlogger "github.com/zubale/querybot/pkg/logger"
	"github.com/zubale/querybot/pkg/pipeline"
	"github.com/zubale/querybot/pkg/tokens"
	testutils "github.com/zubale/querybot/pkg/utils/test"
	"github.com/zubale/querybot/pkg/vector"
)

var _ = Describe("handleQuery", func() {
	var (
		server       *Server
		store        *inmemory.Store
		completer    *testutils.MockCompleter
		vectorDriver *testutils.MockVectorDriver
		embedder     *testutils.MockEmbedder
	)

	BeforeEach(func() {
		logger := querybotlogger.Nop()
		store = inmemory.NewStore(inmemory.Config{})
		completer = testutils.NewMockCompleter("The sofa costs $999.")
		vectorDriver = testutils.NewMockVectorDriver()
		vectorDriver.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "product_1", Content: "Annibale Colombo Sofa, $999"}, Score: 0.9},
		}
		embedder = testutils.NewMockEmbedder()

		p := pipeline.NewPipeline(pipeline.Config{
			Store: store,
			Summarizer: pipeline.NewSummarizer(pipeline.SummarizerConfig{
				Completer: completer,
				Counter:   tokens.NewApproximateCounter(),
				Logger:    logger,
			}),
			Retriever: pipeline.NewRetriever(pipeline.RetrieverConfig{
				Embedder: embedder,
				Driver:   vectorDriver,
				Logger:   logger,
			}),
			Responder: pipeline.NewResponder(completer, logger),
			Logger:    logger,
		})

		server = NewServer(Config{ListenAddr: ":0"}, p, logger)
	})

	postQuery := func(body any) *http.Response {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())

		req, err := http.NewRequest(http.MethodPost, "/query", bytes.NewReader(payload))
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Context("when the request is valid", func() {
		It("returns the generated answer", func() {
			resp := postQuery(QueryRequest{UserID: "u1", Query: "How much is the sofa?"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out QueryResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Answer).To(Equal("The sofa costs $999."))
		})

		It("accumulates history across requests for the same user", func() {
			resp := postQuery(QueryRequest{UserID: "u1", Query: "Tell me about the sofa"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			resp = postQuery(QueryRequest{UserID: "u1", Query: "And how much is it?"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			last := completer.LastRequest()
			Expect(last).NotTo(BeNil())
			Expect(last.PriorTurns).NotTo(BeEmpty())
		})
	})

	Context("when user_id is missing", func() {
		It("returns 400", func() {
			resp := postQuery(QueryRequest{Query: "How much is the sofa?"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("user_id is required"))
		})
	})

	Context("when query is missing", func() {
		It("returns 400", func() {
			resp := postQuery(QueryRequest{UserID: "u1"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("query is required"))
		})
	})

	Context("when the body is not valid JSON", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte("{not json")))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("when a pipeline stage fails", func() {
		It("returns 500 without leaking internals", func() {
			vectorDriver.FailQuery = true

			resp := postQuery(QueryRequest{UserID: "u1", Query: "How much is the sofa?"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("An internal error occurred"))
			Expect(string(body)).NotTo(ContainSubstring("vector"))
		})

		It("does not persist the failed turn", func() {
			vectorDriver.FailQuery = true

			resp := postQuery(QueryRequest{UserID: "u1", Query: "How much is the sofa?"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(store.Len()).To(Equal(0))
		})
	})
})

var _ = Describe("handleHealth", func() {
	It("returns ok", func() {
		logger := querybotlogger.Nop()
		server := NewServer(Config{ListenAddr: ":0"}, nil, logger)

		req, err := http.NewRequest(http.MethodGet, "/health", nil)
		Expect(err).NotTo(HaveOccurred())

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("ok"))
	})
})
