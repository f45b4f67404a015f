package repair

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/apispec-tools/specgate/domain"
)

func TestRecords_ConcatenatedObjects(t *testing.T) {
	records, err := Records(`{ "a":1 } { "a":2 }`)
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Order must match the stream order.
	var first, second struct {
		A int `json:"a"`
	}
	if err := json.Unmarshal(records[0], &first); err != nil {
		t.Fatalf("unmarshal first record: %v", err)
	}
	if err := json.Unmarshal(records[1], &second); err != nil {
		t.Fatalf("unmarshal second record: %v", err)
	}
	if first.A != 1 || second.A != 2 {
		t.Errorf("records out of order: got %d, %d", first.A, second.A)
	}
}

func TestRecords_Idempotence(t *testing.T) {
	// A well-formed array parses to the same content as the raw stream
	// it was repaired from.
	raw := `{"code":"X1"} {"code":"X2"}`
	repaired, err := Records(raw)
	if err != nil {
		t.Fatalf("Records(raw) error: %v", err)
	}

	wellFormed, err := json.Marshal(repaired)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	again, err := Records(string(wellFormed))
	if err != nil {
		t.Fatalf("Records(wellFormed) error: %v", err)
	}

	if len(again) != len(repaired) {
		t.Fatalf("expected %d records, got %d", len(repaired), len(again))
	}
	for i := range again {
		if string(again[i]) != string(repaired[i]) {
			t.Errorf("record %d differs: %s vs %s", i, again[i], repaired[i])
		}
	}
}

func TestRecords_NoObjects(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
	}{
		{"empty chunk", ""},
		{"whitespace only", "  \n\t "},
		{"plain text diagnostics", "tool finished, nothing to report\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Records(tt.chunk)
			if err != nil {
				t.Fatalf("Records() error: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("expected no records, got %d", len(records))
			}
		})
	}
}

func TestRecords_StripsProgressNoise(t *testing.T) {
	chunk := "Processing batch task - {\"package\":\"x\"} .\n" +
		`{"code":"R1"}` + "\n" +
		"Processing batch task - done.\n" +
		`{"code":"R2"}`

	records, err := Records(chunk)
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestRecords_MalformedOutput(t *testing.T) {
	_, err := Records(`{"code": "unterminated`)
	if err == nil {
		t.Fatal("expected an error for unparseable output")
	}
	if !errors.Is(err, domain.ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestFileRecords_AttachesFile(t *testing.T) {
	_, err := FileRecords("specs/a.json", `{"broken`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, domain.ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestRecords_SingleObject(t *testing.T) {
	records, err := Records(`{"code":"R1","message":"only one"}`)
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestRecords_NewlineSeparatedObjects(t *testing.T) {
	records, err := Records("{\"a\":1}\n{\"a\":2}\n{\"a\":3}")
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}
