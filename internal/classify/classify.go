// Package classify normalizes raw tool records into domain.Finding
// values. Each supported tool emits a different shape (field names,
// severity vocabulary, location encoding), so every tool gets its own
// adapter at this boundary instead of ad hoc field access downstream.
package classify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/apispec-tools/specgate/domain"
)

// Location tags used across adapters.
const (
	tagSource = "source"
	tagJSON   = "json"
	tagOld    = "old"
	tagNew    = "new"
)

// Adapter turns one raw tool record into a canonical Finding.
// Adapters are pure: they never mutate the raw record and have no side
// effects.
type Adapter func(raw json.RawMessage) (domain.Finding, error)

// Findings classifies a sequence of raw records with the given adapter.
// Records the adapter rejects are skipped; classification of one record
// never affects another.
func Findings(records []json.RawMessage, adapt Adapter) []domain.Finding {
	findings := make([]domain.Finding, 0, len(records))
	for _, raw := range records {
		f, err := adapt(raw)
		if err != nil {
			continue
		}
		findings = append(findings, f)
	}
	return findings
}

type position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type sourceRef struct {
	Document string   `json:"document"`
	Position position `json:"position"`
}

// location builds a Location, or nothing when either the path or a
// 1-based line number is missing. A location pointing at an unknown
// position is never emitted.
func location(tag, path string, line int) (domain.Location, bool) {
	if path == "" || line < 1 {
		return domain.Location{}, false
	}
	return domain.Location{Tag: tag, Path: path, Line: line}, true
}

// lintRecord is the shape emitted by the AutoRest-based linter. The
// severity lives in "type"; older builds used "level". The source array
// carries the authored document first and, for JSON-derived specs, the
// compiled JSON document second.
type lintRecord struct {
	Type    string      `json:"type"`
	Level   string      `json:"level"`
	ID      string      `json:"id"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Source  []sourceRef `json:"source"`
}

// LintFinding adapts one linter record.
func LintFinding(raw json.RawMessage) (domain.Finding, error) {
	var rec lintRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Finding{}, fmt.Errorf("lint record: %w", err)
	}

	ruleID := rec.ID
	if ruleID == "" {
		ruleID = rec.Code
	}

	severity := rec.Type
	if severity == "" {
		severity = rec.Level
	}

	f := domain.Finding{
		Severity: domain.ParseSeverity(severity),
		RuleID:   ruleID,
		Message:  rec.Message,
	}

	tags := []string{tagSource, tagJSON}
	for i, src := range rec.Source {
		if i >= len(tags) {
			break
		}
		if loc, ok := location(tags[i], src.Document, src.Position.Line); ok {
			f.Locations = append(f.Locations, loc)
		}
	}
	return f, nil
}

// diffRef is one side of an API-diff record. Location is encoded as
// "path:line:column".
type diffRef struct {
	Ref      string `json:"ref"`
	Location string `json:"location"`
}

// diffRecord is the shape emitted by the API-diff tool. Diff records
// carry both an id and a code; the rule identifier renders as
// "{id} - {code}" so the documentation link resolves.
type diffRecord struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Type    string  `json:"type"`
	Message string  `json:"message"`
	Old     diffRef `json:"old"`
	New     diffRef `json:"new"`
}

// DiffFinding adapts one API-diff record.
func DiffFinding(raw json.RawMessage) (domain.Finding, error) {
	var rec diffRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Finding{}, fmt.Errorf("diff record: %w", err)
	}

	f := domain.Finding{
		Severity: domain.ParseSeverity(rec.Type),
		RuleID:   diffRuleID(rec.ID, rec.Code),
		Message:  rec.Message,
	}

	if path, line, ok := splitDiffLocation(rec.Old.Location); ok {
		if loc, valid := location(tagOld, path, line); valid {
			f.Locations = append(f.Locations, loc)
		}
	}
	if path, line, ok := splitDiffLocation(rec.New.Location); ok {
		if loc, valid := location(tagNew, path, line); valid {
			f.Locations = append(f.Locations, loc)
		}
	}
	return f, nil
}

func diffRuleID(id, code string) string {
	switch {
	case id != "" && code != "":
		return id + " - " + code
	case id != "":
		return id
	default:
		return code
	}
}

// splitDiffLocation parses "path:line:column" (column optional). Paths
// may themselves contain colons on Windows, so the line is taken from
// the right.
func splitDiffLocation(loc string) (string, int, bool) {
	if loc == "" {
		return "", 0, false
	}
	parts := strings.Split(loc, ":")
	// Walk back past the numeric column/line suffix.
	for i := len(parts) - 1; i > 0; i-- {
		line, err := strconv.Atoi(parts[i])
		if err != nil {
			break
		}
		if i > 1 {
			if _, err := strconv.Atoi(parts[i-1]); err == nil {
				continue // parts[i] was the column
			}
		}
		return strings.Join(parts[:i], ":"), line, true
	}
	return loc, 0, false
}

// modelRecord is the shape emitted by the model validator. Severity
// lives in "severity" or "level"; the source position points at the
// authored spec and jsonUrl/jsonPosition at the compiled JSON.
type modelRecord struct {
	Severity     string    `json:"severity"`
	Level        string    `json:"level"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	URL          string    `json:"url"`
	Position     *position `json:"position"`
	JSONURL      string    `json:"jsonUrl"`
	JSONPosition *position `json:"jsonPosition"`
}

// ModelFinding adapts one model-validator record.
func ModelFinding(raw json.RawMessage) (domain.Finding, error) {
	var rec modelRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Finding{}, fmt.Errorf("model record: %w", err)
	}

	severity := rec.Severity
	if severity == "" {
		severity = rec.Level
	}

	f := domain.Finding{
		Severity: domain.ParseSeverity(severity),
		RuleID:   rec.Code,
		Message:  rec.Message,
	}

	if rec.Position != nil {
		if loc, ok := location(tagSource, rec.URL, rec.Position.Line); ok {
			f.Locations = append(f.Locations, loc)
		}
	}
	if rec.JSONPosition != nil {
		if loc, ok := location(tagJSON, rec.JSONURL, rec.JSONPosition.Line); ok {
			f.Locations = append(f.Locations, loc)
		}
	}
	return f, nil
}
