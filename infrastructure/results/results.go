// Package results computes the pass-rate summary of a test case set.
package results

import (
	"strconv"

	"uattracker/models"
)

// Summary is derived from the current test cases and never stored.
type Summary struct {
	Total         int     `json:"total"`
	Pass          int     `json:"pass"`
	Partial       int     `json:"partial"`
	Fail          int     `json:"fail"`
	Inapplicable  int     `json:"inapplicable"`
	ResultPercent float64 `json:"resultPercent"`
}

// Summarize counts outcomes. Cases without a status count only toward Total,
// and Inapplicable cases are left out of the percentage base.
func Summarize(cases []models.TestCase) Summary {
	var s Summary
	s.Total = len(cases)
	for _, tc := range cases {
		switch tc.Status {
		case models.StatusPass:
			s.Pass++
		case models.StatusPartial:
			s.Partial++
		case models.StatusFail:
			s.Fail++
		case models.StatusInapplicable:
			s.Inapplicable++
		}
	}
	if d := s.Denominator(); d > 0 {
		s.ResultPercent = float64(s.Pass) / float64(d) * 100
	}
	return s
}

// Denominator is the number of applicable cases.
func (s Summary) Denominator() int {
	return max(s.Total-s.Inapplicable, 0)
}

// Unrecorded is the number of cases without an outcome.
func (s Summary) Unrecorded() int {
	return s.Total - s.Pass - s.Partial - s.Fail - s.Inapplicable
}

// PercentLabel formats ResultPercent with one decimal, e.g. "66.7%".
func (s Summary) PercentLabel() string {
	return strconv.FormatFloat(s.ResultPercent, 'f', 1, 64) + "%"
}
