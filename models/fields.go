package models

// Field is a named accessor/mutator pair over one string-valued field of T.
type Field[T any] struct {
	Name string
	Get  func(T) string
	Set  func(*T, string)
}

// FieldByName returns the descriptor called name, if any.
func FieldByName[T any](fields []Field[T], name string) (Field[T], bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// ProjectFields lists the tracked project fields in log order.
var ProjectFields = []Field[Project]{
	{"name", func(p Project) string { return p.Name }, func(p *Project, v string) { p.Name = v }},
	{"testVersion", func(p Project) string { return p.TestVersion }, func(p *Project, v string) { p.TestVersion = v }},
	{"month", func(p Project) string { return p.Month }, func(p *Project, v string) { p.Month = v }},
}

var TestCaseFields = []Field[TestCase]{
	{"testNumber", func(t TestCase) string { return t.TestNumber }, func(t *TestCase, v string) { t.TestNumber = v }},
	{"category", func(t TestCase) string { return t.Category }, func(t *TestCase, v string) { t.Category = v }},
	{"role", func(t TestCase) string { return t.Role }, func(t *TestCase, v string) { t.Role = v }},
	{"testScenario", func(t TestCase) string { return t.TestScenario }, func(t *TestCase, v string) { t.TestScenario = v }},
	{"preconditions", func(t TestCase) string { return t.Preconditions }, func(t *TestCase, v string) { t.Preconditions = v }},
	{"testSteps", func(t TestCase) string { return t.TestSteps }, func(t *TestCase, v string) { t.TestSteps = v }},
	{"expectedResults", func(t TestCase) string { return t.ExpectedResults }, func(t *TestCase, v string) { t.ExpectedResults = v }},
	{"actualResults", func(t TestCase) string { return t.ActualResults }, func(t *TestCase, v string) { t.ActualResults = v }},
	{"status", func(t TestCase) string { return string(t.Status) }, func(t *TestCase, v string) { t.Status = TestStatus(v) }},
	{"remarks", func(t TestCase) string { return t.Remarks }, func(t *TestCase, v string) { t.Remarks = v }},
}

var ParticipantFields = []Field[Participant]{
	{"demoAccount", func(p Participant) string { return p.DemoAccount }, func(p *Participant, v string) { p.DemoAccount = v }},
	{"role", func(p Participant) string { return p.Role }, func(p *Participant, v string) { p.Role = v }},
	{"name", func(p Participant) string { return p.Name }, func(p *Participant, v string) { p.Name = v }},
	{"email", func(p Participant) string { return p.Email }, func(p *Participant, v string) { p.Email = v }},
	{"participantType", func(p Participant) string { return string(p.ParticipantType) }, func(p *Participant, v string) { p.ParticipantType = ParticipantType(v) }},
}

var ApprovalFields = []Field[ApprovalSignoff]{
	{"role", func(a ApprovalSignoff) string { return a.Role }, func(a *ApprovalSignoff, v string) { a.Role = v }},
	{"name", func(a ApprovalSignoff) string { return a.Name }, func(a *ApprovalSignoff, v string) { a.Name = v }},
	{"unit", func(a ApprovalSignoff) string { return a.Unit }, func(a *ApprovalSignoff, v string) { a.Unit = v }},
	{"date", func(a ApprovalSignoff) string { return a.Date }, func(a *ApprovalSignoff, v string) { a.Date = v }},
	{"signatureFilePath", func(a ApprovalSignoff) string { return a.SignatureFilePath }, func(a *ApprovalSignoff, v string) { a.SignatureFilePath = v }},
	{"verifiedBy", func(a ApprovalSignoff) string { return a.VerifiedBy }, func(a *ApprovalSignoff, v string) { a.VerifiedBy = v }},
	{"remarks", func(a ApprovalSignoff) string { return a.Remarks }, func(a *ApprovalSignoff, v string) { a.Remarks = v }},
	{"month", func(a ApprovalSignoff) string { return a.Month }, func(a *ApprovalSignoff, v string) { a.Month = v }},
}
