package pipeline

import "strings"

// EnhanceQuery builds the retrieval query from the latest user message and
// the condensed prior-context string.
//
// When the latest message is empty or whitespace-only, the condensed context
// is used as the query, falling back to PlaceholderQuery when that is empty
// too. Otherwise the query is the trimmed latest message followed by a
// ". Previous context: ..." clause; the clause is omitted entirely when the
// condensed context is empty.
func EnhanceQuery(latestUser, condensed string) string {
	latest := strings.TrimSpace(latestUser)
	condensed = strings.TrimSpace(condensed)

	if latest == "" {
		if condensed != "" {
			return condensed
		}
		return PlaceholderQuery
	}

	if condensed == "" {
		return latest
	}

	return latest + ". Previous context: " + condensed
}
