package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/jieqi-converter/internal/models"
)

// SolarTerm is one entry of the solar terms listing.
type SolarTerm struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	SouthTerm string `json:"south_term"`
}

// SolarTermsResponse is returned by GET /solar-terms/:year.
type SolarTermsResponse struct {
	Year   int         `json:"year"`
	Source string      `json:"source"`
	Terms  []SolarTerm `json:"terms"`
}

// NewSolarTermsResponse maps a term set, annotating each term with its mirrored name.
func NewSolarTermsResponse(set models.TermSet) SolarTermsResponse {
	resp := SolarTermsResponse{
		Year:   set.Year,
		Source: string(set.Source),
		Terms:  make([]SolarTerm, 0, len(set.Terms)),
	}
	for _, t := range set.Terms {
		south, _ := t.Name.Pair()
		resp.Terms = append(resp.Terms, SolarTerm{
			Name:      string(t.Name),
			Date:      t.Date(),
			Time:      t.Time(),
			Month:     int(t.Month),
			Day:       t.Day,
			Hour:      t.Hour,
			Minute:    t.Minute,
			SouthTerm: string(south),
		})
	}
	return resp
}

// FlexibleYear accepts a JSON number or a numeric string. The legacy form posts the raw input value.
type FlexibleYear int

// UnmarshalJSON implements json.Unmarshaler.
func (y *FlexibleYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("year must be an integer, got %s", string(data))
	}
	*y = FlexibleYear(n)
	return nil
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Hemisphere string       `json:"hemisphere" validate:"required,oneof=north south"`
	Year       FlexibleYear `json:"year" validate:"min=1,max=9998"`
	Date       string       `json:"date" validate:"required"`
	Time       string       `json:"time" validate:"required"`
}

// TermDetail describes a resolved term in a conversion result.
type TermDetail struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Datetime string `json:"datetime"`
	Display  string `json:"display"`
}

// ConvertResponse keeps the flat field layout of the legacy result page.
type ConvertResponse struct {
	InputHemisphere   string      `json:"input_hemisphere"`
	Hemisphere        string      `json:"hemisphere"`
	Year              int         `json:"year"`
	InputDatetime     string      `json:"input_datetime"`
	CurrentTerm       string      `json:"current_term"`
	ActualTerm        string      `json:"actual_term"`
	OutputDatetime    string      `json:"output_datetime"`
	OutputDate        string      `json:"output_date"`
	OutputTime        string      `json:"output_time"`
	PrevTerm          TermDetail  `json:"prev_term"`
	CurrentTermDetail TermDetail  `json:"current_term_detail"`
	NextTerm          TermDetail  `json:"next_term"`
	OutputPrevTerm    *TermDetail `json:"output_prev_term,omitempty"`
	OutputCurrentTerm *TermDetail `json:"output_current_term,omitempty"`
	OutputNextTerm    *TermDetail `json:"output_next_term,omitempty"`
	SouthTermDetail   *TermDetail `json:"south_term_detail,omitempty"`
	Source            string      `json:"source"`
}

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	datetimeLayout = "2006-01-02 15:04"
)

// NewTermDetail renders a resolved term.
func NewTermDetail(term models.ResolvedTerm) TermDetail {
	return TermDetail{
		Name:     string(term.Name),
		Date:     term.At.Format(dateLayout),
		Time:     term.At.Format(timeLayout),
		Datetime: term.At.Format(datetimeLayout),
		Display:  term.Display(),
	}
}

// NewConvertResponse flattens a conversion result.
func NewConvertResponse(result *models.ConversionResult) ConvertResponse {
	resp := ConvertResponse{
		InputHemisphere:   result.Hemisphere.Label(),
		Hemisphere:        string(result.Hemisphere),
		Year:              result.Year,
		InputDatetime:     result.Input.Format(datetimeLayout),
		CurrentTerm:       string(result.CurrentTerm),
		ActualTerm:        string(result.ActualTerm),
		OutputDatetime:    result.Output.Format(datetimeLayout),
		OutputDate:        result.Output.Format(dateLayout),
		OutputTime:        result.Output.Format(timeLayout),
		PrevTerm:          NewTermDetail(result.InputWindow.Prev),
		CurrentTermDetail: NewTermDetail(result.InputWindow.Current),
		NextTerm:          NewTermDetail(result.InputWindow.Next),
		Source:            string(result.Source),
	}

	if w := result.OutputWindow; w != nil {
		prev, cur, next := NewTermDetail(w.Prev), NewTermDetail(w.Current), NewTermDetail(w.Next)
		resp.OutputPrevTerm = &prev
		resp.OutputCurrentTerm = &cur
		resp.OutputNextTerm = &next
	}
	if m := result.MirroredTerm; m != nil {
		detail := NewTermDetail(*m)
		resp.SouthTermDetail = &detail
	}

	return resp
}

// SolarTermCSVHeaders are the columns of the CSV term listing.
var SolarTermCSVHeaders = []string{"name", "south_term", "date", "time", "source"}

// SolarTermsCSVRows flattens the listing into CSV cells ordered like SolarTermCSVHeaders.
func SolarTermsCSVRows(resp SolarTermsResponse) [][]string {
	rows := make([][]string, 0, len(resp.Terms))
	for _, t := range resp.Terms {
		rows = append(rows, []string{t.Name, t.SouthTerm, t.Date, t.Time, resp.Source})
	}
	return rows
}
