package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/theirongolddev/adsim/internal/model"
)

func sample() []model.ProjectionRecord {
	return []model.ProjectionRecord{
		{Label: "2025-01", Revenue: 500, AdCost: 150, AdRatio: 30, Consulting: 60, Production: 30, Other: 20, TotalCost: 260, Profit: 240, Margin: 48, ROAS: 333},
		{Label: "2025-02", Revenue: 525, AdCost: 157, AdRatio: 30, Consulting: 60, Production: 30, Other: 20, TotalCost: 267, Profit: 257, Margin: 49.1, ROAS: 333},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, utf8BOM) {
		t.Fatal("CSV output is missing the UTF-8 BOM")
	}

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Fatalf("header = %v", rows[0])
	}
	want := []string{"2025-02", "525", "157", "30.0", "60", "30", "20", "267", "257", "49.1", "333"}
	if strings.Join(rows[2], ",") != strings.Join(want, ",") {
		t.Fatalf("row = %v, want %v", rows[2], want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	totals := model.Totals{Revenue: 1025, Cost: 527, Profit: 498, AdCost: 307, ROAS: 334, Margin: 48.6}
	if err := WriteJSON(&buf, sample(), totals, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc struct {
		Records  []map[string]any `json:"records"`
		Totals   map[string]any   `json:"totals"`
		Findings []any            `json:"findings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(doc.Records) != 2 || doc.Records[0]["period"] != "2025-01" {
		t.Fatalf("records = %v", doc.Records)
	}
	if doc.Totals["roas"] != 334.0 {
		t.Fatalf("totals = %v", doc.Totals)
	}
	if doc.Findings == nil {
		t.Fatal("findings should encode as an empty list, not null")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != JSON {
		t.Fatalf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Fatal("ParseFormat(xlsx) should fail")
	}
}
