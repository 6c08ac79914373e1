package pipeline

// PlaceholderQuery stands in as the retrieval query when the user sent an
// empty or whitespace-only message and no prior context exists.
const PlaceholderQuery = "general product inquiry"

// PlaceholderQuestion stands in as the user-facing question in the answer
// prompt when the user sent an empty or whitespace-only message.
const PlaceholderQuestion = "Please provide information about available products"

// groundedSystemInstruction is used when the classifier found enough context
// to answer. The retrieved document context is appended at %s.
const groundedSystemInstruction = "You are a helpful product support bot assistant for Zubale. " +
	"Answer the user's question based *only* on the conversation history and/or the following context. " +
	"If the information is not in the context, clearly state that you cannot find the answer. " +
	"Be concise and do not make up information.\n\nCONTEXT:\n%s"

// clarifySystemInstruction is used when the question is an elliptical
// reference with no grounding in the conversation so far. It forbids
// answering from an arbitrarily chosen document in context.
const clarifySystemInstruction = "You are a helpful product support bot assistant for Zubale. " +
	"The user's question refers to a product, but the conversation so far does not make clear which one. " +
	"Ask the user to specify which product they mean. Do not pick a product from the context at random " +
	"and do not answer the question until the product is known.\n\nCONTEXT:\n%s"

// summarySystemInstruction drives the history summarization call.
const summarySystemInstruction = "You condense product-support conversations. " +
	"Summarize the conversation below into a short paragraph that preserves every product name, " +
	"attribute, and open question mentioned. Output only the summary."
