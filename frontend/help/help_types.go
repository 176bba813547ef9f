package help

import (
	"uattracker/frontend/shared/nav"
	"uattracker/models"
)

type PageData struct {
	Nav           nav.TopNavData
	ActiveProject string
}

type statusHelp struct {
	Status  models.TestStatus
	Meaning string
}

var statuses = []statusHelp{
	{models.StatusPass, "Actual results match the expected results. Counts toward the result percentage."},
	{models.StatusPartial, "Some expected results were met. Counted in the base but not as passed."},
	{models.StatusFail, "Expected results were not met."},
	{models.StatusInapplicable, "The scenario does not apply to this cycle. Left out of the percentage base."},
}
