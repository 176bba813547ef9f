package workspace

import (
	"context"
	"errors"
	"fmt"

	"uattracker/infrastructure/changelog"
	"uattracker/infrastructure/store"
	"uattracker/models"
)

// collection binds one project-scoped entity type to its gateway calls and
// in-memory slice.
type collection[T any] struct {
	name       string
	kind       models.EntityKind
	fields     []models.Field[T]
	id         func(T) string
	project    func(T) string
	setProject func(*T, string)
	items      func(*Controller) *[]T
	upsert     func(context.Context, T) (T, error)
	del        func(context.Context, string) error
	display    func(T) string
}

func (c *Controller) testCaseCollection() collection[models.TestCase] {
	return collection[models.TestCase]{
		name:       "test case",
		kind:       models.EntityTestCase,
		fields:     models.TestCaseFields,
		id:         func(tc models.TestCase) string { return tc.ID },
		project:    func(tc models.TestCase) string { return tc.ProjectID },
		setProject: func(tc *models.TestCase, id string) { tc.ProjectID = id },
		items:      func(c *Controller) *[]models.TestCase { return &c.testCases },
		upsert:     c.gw.UpsertTestCase,
		del:        c.gw.DeleteTestCase,
		display:    changelog.TestCaseDisplay,
	}
}

func (c *Controller) participantCollection() collection[models.Participant] {
	return collection[models.Participant]{
		name:       "participant",
		kind:       models.EntityParticipant,
		fields:     models.ParticipantFields,
		id:         func(p models.Participant) string { return p.ID },
		project:    func(p models.Participant) string { return p.ProjectID },
		setProject: func(p *models.Participant, id string) { p.ProjectID = id },
		items:      func(c *Controller) *[]models.Participant { return &c.participants },
		upsert:     c.gw.UpsertParticipant,
		del:        c.gw.DeleteParticipant,
		display:    changelog.ParticipantDisplay,
	}
}

func (c *Controller) approvalCollection() collection[models.ApprovalSignoff] {
	return collection[models.ApprovalSignoff]{
		name:       "approval",
		kind:       models.EntityApprovalSignoff,
		fields:     models.ApprovalFields,
		id:         func(a models.ApprovalSignoff) string { return a.ID },
		project:    func(a models.ApprovalSignoff) string { return a.ProjectID },
		setProject: func(a *models.ApprovalSignoff, id string) { a.ProjectID = id },
		items:      func(c *Controller) *[]models.ApprovalSignoff { return &c.approvals },
		upsert:     c.gw.UpsertApproval,
		del:        c.gw.DeleteApproval,
		display:    changelog.ApprovalDisplay,
	}
}

func (c *Controller) SaveTestCase(ctx context.Context, tc models.TestCase) (models.TestCase, error) {
	return save(ctx, c, c.testCaseCollection(), tc, true)
}

func (c *Controller) RemoveTestCase(ctx context.Context, id string) error {
	return remove(ctx, c, c.testCaseCollection(), id)
}

func (c *Controller) SaveParticipant(ctx context.Context, p models.Participant) (models.Participant, error) {
	return save(ctx, c, c.participantCollection(), p, true)
}

func (c *Controller) RemoveParticipant(ctx context.Context, id string) error {
	return remove(ctx, c, c.participantCollection(), id)
}

func (c *Controller) SaveApproval(ctx context.Context, a models.ApprovalSignoff) (models.ApprovalSignoff, error) {
	return save(ctx, c, c.approvalCollection(), a, true)
}

func (c *Controller) RemoveApproval(ctx context.Context, id string) error {
	return remove(ctx, c, c.approvalCollection(), id)
}

// UpdateTestCaseField sets one named field of a loaded test case and saves it.
// It backs inline execution edits (actualResults, status, remarks).
func (c *Controller) UpdateTestCaseField(ctx context.Context, id, field, value string) (models.TestCase, error) {
	f, ok := models.FieldByName(models.TestCaseFields, field)
	if !ok {
		return models.TestCase{}, fmt.Errorf("%w: unknown test case field %q", store.ErrInvalidInput, field)
	}

	c.mu.Lock()
	if c.activeID == "" {
		c.mu.Unlock()
		return models.TestCase{}, ErrNoActiveProject
	}
	i := indexByID(c.testCases, id, idOfTestCase)
	if i < 0 {
		c.mu.Unlock()
		return models.TestCase{}, ErrUnknownRecord
	}
	tc := c.testCases[i]
	c.mu.Unlock()

	f.Set(&tc, value)
	return save(ctx, c, c.testCaseCollection(), tc, true)
}

// ImportTestCases saves each case as a new record of the active project.
// Rows that fail are skipped; their errors are joined in the result.
func (c *Controller) ImportTestCases(ctx context.Context, cases []models.TestCase) (int, error) {
	projectID := c.ActiveProjectID()
	if projectID == "" {
		return 0, ErrNoActiveProject
	}

	col := c.testCaseCollection()
	inserted := 0
	var errs []error
	for i, tc := range cases {
		tc.ID = ""
		tc.ProjectID = projectID
		if _, err := save(ctx, c, col, tc, false); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		inserted++
	}
	if inserted > 0 {
		c.refreshChangeLog(ctx, projectID)
	}
	return inserted, errors.Join(errs...)
}

// CreateProject stores a new project, puts it first in the list and selects it.
func (c *Controller) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = ""
	saved, err := c.gw.CreateProject(ctx, p)
	if err != nil {
		c.fail("create project", err)
		return models.Project{}, err
	}

	c.mu.Lock()
	c.projects = append([]models.Project{saved}, c.projects...)
	c.lastError = ""
	c.mu.Unlock()

	_ = changelog.Record(ctx, c.tracker, models.EntityProject, saved.ID, saved.ID, nil, saved, models.ProjectFields, c.user.Name)
	if err := c.Select(ctx, saved.ID); err != nil {
		return saved, err
	}
	return saved, nil
}

// UpdateProject saves name, test version and month of a listed project.
func (c *Controller) UpdateProject(ctx context.Context, p models.Project) (models.Project, error) {
	c.mu.Lock()
	i := indexByID(c.projects, p.ID, idOfProject)
	if i < 0 {
		c.mu.Unlock()
		return models.Project{}, ErrUnknownProject
	}
	prev := c.projects[i]
	c.mu.Unlock()

	saved, err := c.gw.UpdateProject(ctx, p)
	if err != nil {
		c.fail("update project", err)
		return models.Project{}, err
	}

	c.mu.Lock()
	c.projects = upsertByID(c.projects, saved, idOfProject)
	active := c.activeID == saved.ID
	c.lastError = ""
	c.mu.Unlock()

	_ = changelog.Record(ctx, c.tracker, models.EntityProject, saved.ID, saved.ID, &prev, saved, models.ProjectFields, c.user.Name)
	if active {
		c.refreshChangeLog(ctx, saved.ID)
	}
	return saved, nil
}

func save[T any](ctx context.Context, c *Controller, col collection[T], item T, refresh bool) (T, error) {
	var zero T

	c.mu.Lock()
	projectID := c.activeID
	if projectID == "" {
		c.mu.Unlock()
		return zero, ErrNoActiveProject
	}
	if p := col.project(item); p != "" && p != projectID {
		c.mu.Unlock()
		return zero, ErrUnknownRecord
	}
	col.setProject(&item, projectID)
	var prev *T
	if id := col.id(item); id != "" {
		items := *col.items(c)
		if i := indexByID(items, id, col.id); i >= 0 {
			p := items[i]
			prev = &p
		}
	}
	c.mu.Unlock()

	saved, err := col.upsert(ctx, item)
	if err != nil {
		c.fail("save "+col.name, err)
		if errors.Is(err, store.ErrForeignRecord) {
			return zero, ErrUnknownRecord
		}
		return zero, err
	}

	c.mu.Lock()
	if c.activeID == projectID {
		items := col.items(c)
		*items = upsertByID(*items, saved, col.id)
	}
	c.lastError = ""
	c.mu.Unlock()

	_ = changelog.Record(ctx, c.tracker, col.kind, projectID, col.id(saved), prev, saved, col.fields, c.user.Name)
	if refresh {
		c.refreshChangeLog(ctx, projectID)
	}
	return saved, nil
}

func remove[T any](ctx context.Context, c *Controller, col collection[T], id string) error {
	c.mu.Lock()
	projectID := c.activeID
	if projectID == "" {
		c.mu.Unlock()
		return ErrNoActiveProject
	}
	items := *col.items(c)
	i := indexByID(items, id, col.id)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownRecord
	}
	prev := items[i]
	c.mu.Unlock()

	if err := col.del(ctx, id); err != nil {
		c.fail("remove "+col.name, err)
		return err
	}

	c.mu.Lock()
	if c.activeID == projectID {
		items := col.items(c)
		*items = removeByID(*items, id, col.id)
	}
	c.lastError = ""
	c.mu.Unlock()

	_ = c.tracker.RecordDeletion(ctx, col.kind, projectID, id, col.display(prev), c.user.Name)
	c.refreshChangeLog(ctx, projectID)
	return nil
}

func idOfProject(p models.Project) string { return p.ID }

func idOfTestCase(tc models.TestCase) string { return tc.ID }

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// upsertByID replaces the item with the same id or appends it.
func upsertByID[T any](items []T, item T, idOf func(T) string) []T {
	if i := indexByID(items, idOf(item), idOf); i >= 0 {
		out := append([]T{}, items...)
		out[i] = item
		return out
	}
	return append(append([]T{}, items...), item)
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
