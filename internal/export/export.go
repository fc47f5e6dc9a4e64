// Package export writes projections as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/adsim/internal/model"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// Header is the CSV column order.
var Header = []string{
	"period", "revenue", "ad_cost", "ad_ratio", "consulting", "production",
	"other", "total_cost", "profit", "margin", "roas",
}

// Format selects an output encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case CSV:
		return CSV, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// Write encodes records in format f.
func Write(w io.Writer, f Format, records []model.ProjectionRecord, totals model.Totals, findings []model.Finding) error {
	switch f {
	case JSON:
		return WriteJSON(w, records, totals, findings)
	default:
		return WriteCSV(w, records)
	}
}

// WriteCSV writes a BOM-prefixed CSV table, one row per period.
func WriteCSV(w io.Writer, records []model.ProjectionRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Label,
			strconv.FormatInt(r.Revenue, 10),
			strconv.FormatInt(r.AdCost, 10),
			strconv.FormatFloat(r.AdRatio, 'f', 1, 64),
			strconv.FormatInt(r.Consulting, 10),
			strconv.FormatInt(r.Production, 10),
			strconv.FormatInt(r.Other, 10),
			strconv.FormatInt(r.TotalCost, 10),
			strconv.FormatInt(r.Profit, 10),
			strconv.FormatFloat(r.Margin, 'f', 1, 64),
			strconv.FormatFloat(r.ROAS, 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRecord struct {
	Period     string  `json:"period"`
	Revenue    int64   `json:"revenue"`
	AdCost     int64   `json:"ad_cost"`
	AdRatio    float64 `json:"ad_ratio"`
	Consulting int64   `json:"consulting"`
	Production int64   `json:"production"`
	Other      int64   `json:"other"`
	TotalCost  int64   `json:"total_cost"`
	Profit     int64   `json:"profit"`
	Margin     float64 `json:"margin"`
	ROAS       float64 `json:"roas"`
}

type jsonTotals struct {
	Revenue int64   `json:"revenue"`
	Cost    int64   `json:"cost"`
	Profit  int64   `json:"profit"`
	AdCost  int64   `json:"ad_cost"`
	ROAS    float64 `json:"roas"`
	Margin  float64 `json:"margin"`
}

type jsonDocument struct {
	Records  []jsonRecord    `json:"records"`
	Totals   jsonTotals      `json:"totals"`
	Findings []model.Finding `json:"findings"`
}

// WriteJSON writes records, totals and findings as one indented document.
func WriteJSON(w io.Writer, records []model.ProjectionRecord, totals model.Totals, findings []model.Finding) error {
	doc := jsonDocument{
		Records: make([]jsonRecord, len(records)),
		Totals: jsonTotals{
			Revenue: totals.Revenue,
			Cost:    totals.Cost,
			Profit:  totals.Profit,
			AdCost:  totals.AdCost,
			ROAS:    totals.ROAS,
			Margin:  totals.Margin,
		},
		Findings: findings,
	}
	if doc.Findings == nil {
		doc.Findings = []model.Finding{}
	}
	for i, r := range records {
		doc.Records[i] = jsonRecord{
			Period:     r.Label,
			Revenue:    r.Revenue,
			AdCost:     r.AdCost,
			AdRatio:    r.AdRatio,
			Consulting: r.Consulting,
			Production: r.Production,
			Other:      r.Other,
			TotalCost:  r.TotalCost,
			Profit:     r.Profit,
			Margin:     r.Margin,
			ROAS:       r.ROAS,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}
