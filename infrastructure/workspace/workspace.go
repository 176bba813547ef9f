// Package workspace holds one user's active UAT project and its loaded
// collections. It is the integration point for the presentation layer.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"uattracker/infrastructure/changelog"
	"uattracker/infrastructure/results"
	"uattracker/models"
)

type State string

const (
	StateNoProject State = "no_project"
	StateLoading   State = "loading"
	StateLoaded    State = "loaded"
)

var (
	// ErrNoActiveProject is returned by mutations made before a project is selected.
	ErrNoActiveProject = errors.New("no active project")
	// ErrUnknownProject is returned when selecting or editing a project id that does not exist.
	ErrUnknownProject = errors.New("unknown project")
	// ErrUnknownRecord is returned when a record is not part of the active project.
	ErrUnknownRecord = errors.New("record is not in the active project")
)

// Gateway is the persistence contract the controller depends on. Reads never
// fail; they return an empty slice when the store is unavailable.
type Gateway interface {
	ListProjects(ctx context.Context) []models.Project
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (models.Project, error)

	ListTestCases(ctx context.Context, projectID string) []models.TestCase
	UpsertTestCase(ctx context.Context, tc models.TestCase) (models.TestCase, error)
	DeleteTestCase(ctx context.Context, id string) error

	ListParticipants(ctx context.Context, projectID string) []models.Participant
	UpsertParticipant(ctx context.Context, p models.Participant) (models.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error

	ListApprovals(ctx context.Context, projectID string) []models.ApprovalSignoff
	UpsertApproval(ctx context.Context, a models.ApprovalSignoff) (models.ApprovalSignoff, error)
	DeleteApproval(ctx context.Context, id string) error

	ListChangeLog(ctx context.Context, projectID string) []models.ChangeLogEntry
	changelog.Appender
}

// Controller owns the active project state for one user. Store calls are
// made without holding the lock.
type Controller struct {
	gw      Gateway
	tracker *changelog.Tracker
	logger  *slog.Logger
	user    models.AuthUser

	initOnce sync.Once
	initErr  error

	mu           sync.Mutex
	state        State
	generation   uint64
	projects     []models.Project
	activeID     string
	testCases    []models.TestCase
	participants []models.Participant
	approvals    []models.ApprovalSignoff
	changes      []models.ChangeLogEntry
	lastError    string
}

func NewController(gw Gateway, user models.AuthUser, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gw:      gw,
		tracker: changelog.NewTracker(gw, logger),
		logger:  logger,
		user:    user,
		state:   StateNoProject,
	}
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	User          models.AuthUser          `json:"user"`
	State         State                    `json:"state"`
	Projects      []models.Project         `json:"projects"`
	ActiveProject *models.Project          `json:"activeProject"`
	TestCases     []models.TestCase        `json:"testCases"`
	Participants  []models.Participant     `json:"participants"`
	Approvals     []models.ApprovalSignoff `json:"approvals"`
	ChangeLog     []models.ChangeLogEntry  `json:"changeLog"`
	Summary       results.Summary          `json:"summary"`
	LastError     string                   `json:"lastError,omitempty"`
}

func (c *Controller) User() models.AuthUser {
	return c.user
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveProjectID returns "" when no project is selected.
func (c *Controller) ActiveProjectID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Summary is recomputed from the loaded test cases on every call.
func (c *Controller) Summary() results.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return results.Summarize(c.testCases)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		User:         c.user,
		State:        c.state,
		Projects:     append([]models.Project{}, c.projects...),
		TestCases:    append([]models.TestCase{}, c.testCases...),
		Participants: append([]models.Participant{}, c.participants...),
		Approvals:    append([]models.ApprovalSignoff{}, c.approvals...),
		ChangeLog:    append([]models.ChangeLogEntry{}, c.changes...),
		Summary:      results.Summarize(c.testCases),
		LastError:    c.lastError,
	}
	if i := indexByID(c.projects, c.activeID, idOfProject); i >= 0 {
		p := c.projects[i]
		snap.ActiveProject = &p
	}
	return snap
}

// Init loads the project list and selects preferredID when it exists,
// otherwise the first project. With no projects the state stays NoProject.
func (c *Controller) Init(ctx context.Context, preferredID string) error {
	projects := c.gw.ListProjects(ctx)

	c.mu.Lock()
	c.projects = projects
	c.mu.Unlock()

	if len(projects) == 0 {
		return nil
	}
	target := projects[0].ID
	if preferredID != "" && indexByID(projects, preferredID, idOfProject) >= 0 {
		target = preferredID
	}
	return c.Select(ctx, target)
}

// EnsureInit runs Init once per controller. Concurrent callers block until
// the first run finishes and all receive its error. preferred is only called
// by the run that initialises.
func (c *Controller) EnsureInit(ctx context.Context, preferred func() string) error {
	c.initOnce.Do(func() {
		c.initErr = c.Init(ctx, preferred())
	})
	return c.initErr
}

// Select makes id the active project and reloads its four collections
// concurrently. State from the previous project is discarded.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	known := indexByID(c.projects, id, idOfProject) >= 0
	c.mu.Unlock()
	if !known {
		projects := c.gw.ListProjects(ctx)
		if indexByID(projects, id, idOfProject) < 0 {
			return ErrUnknownProject
		}
		c.mu.Lock()
		c.projects = projects
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.activeID = id
	c.state = StateLoading
	c.testCases = nil
	c.participants = nil
	c.approvals = nil
	c.changes = nil
	c.mu.Unlock()

	var (
		testCases    []models.TestCase
		participants []models.Participant
		approvals    []models.ApprovalSignoff
		changes      []models.ChangeLogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		testCases = c.gw.ListTestCases(gctx, id)
		return nil
	})
	g.Go(func() error {
		participants = c.gw.ListParticipants(gctx, id)
		return nil
	})
	g.Go(func() error {
		approvals = c.gw.ListApprovals(gctx, id)
		return nil
	})
	g.Go(func() error {
		changes = c.gw.ListChangeLog(gctx, id)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	// A later Select owns the state now.
	if c.generation != gen {
		return nil
	}
	c.testCases = testCases
	c.participants = participants
	c.approvals = approvals
	c.changes = changes
	c.state = StateLoaded
	return nil
}

func (c *Controller) fail(op string, err error) {
	c.logger.Warn("workspace mutation failed", slog.String("op", op), slog.Any("err", err))
	c.mu.Lock()
	c.lastError = err.Error()
	c.mu.Unlock()
}

// refreshChangeLog re-reads the change log if projectID is still active.
func (c *Controller) refreshChangeLog(ctx context.Context, projectID string) {
	changes := c.gw.ListChangeLog(ctx, projectID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeID == projectID {
		c.changes = changes
	}
}
