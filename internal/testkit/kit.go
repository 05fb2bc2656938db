// Package testkit builds synthetic election, health and boundary fixtures
// and writes them in the on-disk formats the loaders accept.
package testkit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"cdicorr/domain/dataset"
	"cdicorr/domain/election"
	"cdicorr/domain/health"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// County is one row of the county results file
type County struct {
	StateAbbr string
	FIPS      int
	Dem       int
	GOP       int
	Total     int
}

// Observation is one row of the indicators file
type Observation struct {
	LocationAbbr   string
	Question       string
	Stratification string
	DataValue      string
	Unit           string
}

// ElectionHeaders matches the published county results layout, including
// the unnamed leading index column
var ElectionHeaders = []string{
	"", election.ColVotesDem, election.ColVotesGOP, election.ColTotalVotes,
	election.ColPerDem, election.ColPerGOP, election.ColStateAbbr, "county_name", election.ColCombinedFIPS,
}

// HealthHeaders is a reduced indicators layout with one denylisted column
var HealthHeaders = []string{
	"YearStart", health.ColLocationAbbr, "LocationDesc", "Topic", health.ColQuestion,
	health.ColDataValueUnit, health.ColDataValue, "DataValueFootnoteSymbol", health.ColStratification,
}

// ElectionRecords renders counties as CSV records, header first
func ElectionRecords(counties []County) [][]string {
	records := [][]string{ElectionHeaders}
	for i, c := range counties {
		records = append(records, []string{
			strconv.Itoa(i),
			strconv.Itoa(c.Dem),
			strconv.Itoa(c.GOP),
			strconv.Itoa(c.Total),
			ratio(c.Dem, c.Total),
			ratio(c.GOP, c.Total),
			c.StateAbbr,
			fmt.Sprintf("County %d", c.FIPS),
			strconv.Itoa(c.FIPS),
		})
	}
	return records
}

// HealthRecords renders observations as CSV records, header first
func HealthRecords(obs []Observation) [][]string {
	records := [][]string{HealthHeaders}
	for i, o := range obs {
		records = append(records, []string{
			strconv.Itoa(2014 + i%3),
			o.LocationAbbr,
			"State " + o.LocationAbbr,
			"Synthetic",
			o.Question,
			o.Unit,
			o.DataValue,
			"",
			o.Stratification,
		})
	}
	return records
}

// Table converts CSV-style records into a raw table without touching disk
func Table(records [][]string) *dataset.Table {
	headers := append([]string(nil), records[0]...)
	for i, h := range headers {
		if h == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	rows := make([]dataset.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(dataset.Row, len(headers))
		for j, h := range headers {
			row[h] = rec[j]
		}
		rows = append(rows, row)
	}
	return &dataset.Table{Headers: headers, Rows: rows}
}

// WriteCSV writes records to dir/name as UTF-8, or ISO-8859-1 when latin1 is set
func WriteCSV(dir, name string, records [][]string, latin1 bool) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var w io.Writer = f
	if latin1 {
		tw := transform.NewWriter(f, charmap.ISO8859_1.NewEncoder())
		defer tw.Close()
		w = tw
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return "", err
	}
	return path, nil
}

// Box is an axis-aligned state boundary in lon/lat
type Box struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// WriteStatesGeoJSON writes one rectangular polygon feature per state
func WriteStatesGeoJSON(dir, name string, boxes map[string]Box) (string, error) {
	type geometry struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	type feature struct {
		Type       string            `json:"type"`
		Properties map[string]string `json:"properties"`
		Geometry   geometry          `json:"geometry"`
	}
	doc := struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}{Type: "FeatureCollection"}

	for abbr, b := range boxes {
		ring := [][2]float64{
			{b.MinLon, b.MinLat}, {b.MaxLon, b.MinLat}, {b.MaxLon, b.MaxLat}, {b.MinLon, b.MaxLat}, {b.MinLon, b.MinLat},
		}
		doc.Features = append(doc.Features, feature{
			Type:       "Feature",
			Properties: map[string]string{"STUSPS": abbr},
			Geometry:   geometry{Type: "Polygon", Coordinates: [][][2]float64{ring}},
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, data, 0644)
}

func ratio(part, total int) string {
	if total == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(part)/float64(total), 'f', 6, 64)
}
