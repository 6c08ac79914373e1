package pipeline

import "strings"

// ellipticalLeadIns are lead-in phrases signaling a dangling reference to an
// unstated subject ("and what is the price?"). A question starting with one
// of these can only be answered when the conversation so far names a
// product. The list is closed; matching is prefix-based on the normalized
// question.
var ellipticalLeadIns = []string{
	"and what",
	"and how",
	"and is",
	"and does",
	"and can",
	"what about",
	"how about",
	"what's the",
	"whats the",
	"what is the",
	"what are the",
	"how much",
	"is it",
	"is there",
	"does it",
	"can it",
	"do they",
	"the price",
	"the cost",
	"the warranty",
	"the color",
	"the size",
	"the weight",
	"the material",
	"its price",
	"tell me more",
	"more about",
	"what else",
	"anything else",
}

// productIndicators are product and category terms whose presence in the
// condensed history grounds an elliptical question. Matching is
// case-insensitive substring search.
var productIndicators = []string{
	"product",
	"sofa",
	"chair",
	"table",
	"desk",
	"bed",
	"mattress",
	"dresser",
	"laptop",
	"phone",
	"smartphone",
	"tablet",
	"watch",
	"camera",
	"headphones",
	"speaker",
	"monitor",
	"keyboard",
	"mouse",
	"perfume",
	"fragrance",
	"furniture",
	"electronics",
	"beauty",
	"groceries",
	"model",
	"brand",
}

// ClassifyContext decides whether the current question, combined with the
// condensed summarized history, has enough grounding to answer directly.
//
// A question that does not start with an elliptical lead-in is
// self-contained. One that does is answerable only when the condensed
// history mentions at least one product or category indicator.
//
// This is a pure function of its inputs: no model call, no I/O.
func ClassifyContext(question, condensed string) bool {
	normalized := strings.ToLower(strings.TrimSpace(question))

	elliptical := false
	for _, leadIn := range ellipticalLeadIns {
		if strings.HasPrefix(normalized, leadIn) {
			elliptical = true
			break
		}
	}

	if !elliptical {
		return true
	}

	haystack := strings.ToLower(condensed)
	for _, indicator := range productIndicators {
		if strings.Contains(haystack, indicator) {
			return true
		}
	}

	return false
}
