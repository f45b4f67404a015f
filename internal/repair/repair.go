// Package repair turns the concatenated, noise-ridden JSON that external
// validation tools write to stdout into a well-formed record sequence.
//
// The tools emit one JSON object per finding with no separator beyond
// whitespace, interleaved with progress lines. Repair is a best-effort
// textual adapter: when the result still is not valid JSON the failure
// is reported as domain.ErrMalformedOutput and the caller picks the
// blast radius.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/apispec-tools/specgate/domain"
)

var (
	// progressLine matches the batch progress chatter some tools print
	// between result objects.
	progressLine = regexp.MustCompile(`(?m)^Processing batch task.*\r?\n?`)

	// objectBoundary matches a closing brace separated from the next
	// opening brace by whitespace only, i.e. the seam between two
	// concatenated top-level objects.
	objectBoundary = regexp.MustCompile(`\}\s+\{`)
)

// Records extracts the ordered sequence of raw JSON records from a raw
// tool output chunk.
//
// A chunk without any opening brace yields no records and no error.
// A chunk that is already a JSON array parses as-is, so repairing
// well-formed output is a no-op. Anything else is repaired by stripping
// progress lines, inserting commas at object boundaries and wrapping
// the result in an array literal.
func Records(chunk string) ([]json.RawMessage, error) {
	if !strings.Contains(chunk, "{") {
		return nil, nil
	}

	cleaned := strings.TrimSpace(progressLine.ReplaceAllString(chunk, ""))

	if strings.HasPrefix(cleaned, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &records); err == nil {
			return records, nil
		}
		// Fall through: a stray '[' in broken output still gets the
		// repair treatment below.
	}

	joined := objectBoundary.ReplaceAllString(cleaned, "},{")
	wrapped := "[" + joined + "]"

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(wrapped), &records); err != nil {
		return nil, domain.NewMalformedOutputError("stream", err)
	}
	return records, nil
}

// FileRecords is Records with the originating file attached to any
// malformed-output error, for the per-file isolation policy.
func FileRecords(file, chunk string) ([]json.RawMessage, error) {
	records, err := Records(chunk)
	if err != nil {
		return nil, domain.NewMalformedOutputError(file, err)
	}
	return records, nil
}
