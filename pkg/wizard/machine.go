// Package wizard implements the per-user conversation state machine that drives
// multi-step data entry. A wizard is a named, ordered list of steps; each user has at
// most one active wizard, kept in an injected Repository.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
)

// Policy decides what Start does when the user already has an active wizard
type Policy int

const (
	// PolicyReplace discards the active wizard and its input
	PolicyReplace Policy = iota
	// PolicyReject fails with a Conflict error
	PolicyReject
)

// ParsePolicy reads "replace" or "reject"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return PolicyReplace, nil
	case "reject":
		return PolicyReject, nil
	}
	return PolicyReplace, fmt.Errorf("unknown wizard policy %q", s)
}

// DefaultCancelWords end any wizard when sent as text
var DefaultCancelWords = []string{"❌ Bekor qilish", "/cancel", "bekor"}

// Step is one prompt, its validator, and an optional side-effectful check
type Step struct {
	Name     string
	Prompt   func(Values) Prompt
	Validate Validator
	// Check runs after Validate with the merged values. A Validation or Conflict
	// error keeps the user on this step.
	Check func(ctx context.Context, v Values) error
}

// CommitFunc persists a completed wizard and returns the confirmation to show.
// It must write everything in one transaction.
type CommitFunc func(ctx context.Context, identity int64, v Values) (Prompt, error)

// Wizard is a named step sequence with its commit
type Wizard struct {
	ID     string
	Steps  []Step
	Commit CommitFunc
}

// State is the persisted position of one user
type State struct {
	WizardID  string    `json:"wizard_id" bson:"wizard_id"`
	Step      int       `json:"step" bson:"step"`
	Values    Values    `json:"values" bson:"values"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Status is the outcome of Submit
type Status int

const (
	// StatusIdle: the user has no active wizard, the input is not ours
	StatusIdle Status = iota
	StatusAdvanced
	StatusRetry
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusAdvanced:
		return "advanced"
	case StatusRetry:
		return "retry"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Result is what Submit returns to the handler
type Result struct {
	Status   Status
	WizardID string
	Step     int
	// Prompt is the next step prompt, the repeated prompt on retry, or the commit confirmation
	Prompt Prompt
	// Problem explains a retry
	Problem error
	Values  Values
}

// Observer receives wizard lifecycle events, e.g. for metrics
type Observer func(wizardID string, event string)

// Option configures a Machine
type Option func(*Machine)

func WithPolicy(p Policy) Option {
	return func(m *Machine) { m.policy = p }
}

func WithCancelWords(words ...string) Option {
	return func(m *Machine) {
		m.cancelWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			m.cancelWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
		}
	}
}

func WithObserver(o Observer) Option {
	return func(m *Machine) { m.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// Machine routes user input through registered wizards
type Machine struct {
	repo        Repository
	policy      Policy
	cancelWords map[string]struct{}
	observer    Observer
	now         func() time.Time
	locks       *keyedMutex

	mu      sync.RWMutex
	wizards map[string]*Wizard
}

// NewMachine creates a Machine over repo
func NewMachine(repo Repository, opts ...Option) *Machine {
	m := &Machine{
		repo:    repo,
		policy:  PolicyReplace,
		now:     time.Now,
		locks:   newKeyedMutex(),
		wizards: make(map[string]*Wizard),
	}
	WithCancelWords(DefaultCancelWords...)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a wizard. Ids are unique and a wizard needs at least one step.
func (m *Machine) Register(w *Wizard) error {
	if w == nil || w.ID == "" {
		return fmt.Errorf("wizard id is required")
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("wizard %q has no steps", w.ID)
	}
	if w.Commit == nil {
		return fmt.Errorf("wizard %q has no commit", w.ID)
	}
	for i, s := range w.Steps {
		if s.Validate == nil || s.Prompt == nil {
			return fmt.Errorf("wizard %q step %d is incomplete", w.ID, i)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.wizards[w.ID]; exists {
		return fmt.Errorf("wizard %q already registered", w.ID)
	}
	m.wizards[w.ID] = w
	return nil
}

// MustRegister is Register for package initialisation
func (m *Machine) MustRegister(w *Wizard) {
	if err := m.Register(w); err != nil {
		panic(err)
	}
}

func (m *Machine) wizard(id string) (*Wizard, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wizards[id]
	return w, ok
}

// IsCancel reports whether text is a cancel keyword
func (m *Machine) IsCancel(text string) bool {
	_, ok := m.cancelWords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Start puts identity on step 0 of wizardID with seed values
func (m *Machine) Start(ctx context.Context, identity int64, wizardID string, seed Values) (Prompt, error) {
	w, ok := m.wizard(wizardID)
	if !ok {
		return Prompt{}, errors.NotFound(fmt.Sprintf("wizard %q topilmadi", wizardID))
	}

	unlock := m.locks.Lock(identity)
	defer unlock()

	if m.policy == PolicyReject {
		current, err := m.repo.Load(ctx, identity)
		if err != nil {
			return Prompt{}, errors.Wrap(errors.KindPersistence, err, "Holatni o'qib bo'lmadi")
		}
		if current != nil {
			return Prompt{}, errors.Conflict("Avvalgi amalni tugating yoki bekor qiling.")
		}
	}

	values := Values{}
	if seed != nil {
		values = seed.Clone()
	}
	state := &State{WizardID: w.ID, Step: 0, Values: values, UpdatedAt: m.now()}
	if err := m.repo.Save(ctx, identity, state); err != nil {
		return Prompt{}, errors.Wrap(errors.KindPersistence, err, "Holatni saqlab bo'lmadi")
	}

	m.observe(w.ID, "started")
	return w.Steps[0].Prompt(values), nil
}

// Submit feeds one input to the active wizard of identity
func (m *Machine) Submit(ctx context.Context, identity int64, in Input) (Result, error) {
	unlock := m.locks.Lock(identity)
	defer unlock()

	state, err := m.repo.Load(ctx, identity)
	if err != nil {
		return Result{}, errors.Wrap(errors.KindPersistence, err, "Holatni o'qib bo'lmadi")
	}
	if state == nil {
		return Result{Status: StatusIdle}, nil
	}

	// cancel wins over step input
	if in.Kind == InputText && m.IsCancel(in.Text) {
		if err := m.repo.Delete(ctx, identity); err != nil {
			return Result{}, errors.Wrap(errors.KindPersistence, err, "Holatni o'chirib bo'lmadi")
		}
		m.observe(state.WizardID, "cancelled")
		return Result{Status: StatusCancelled, WizardID: state.WizardID}, nil
	}

	w, ok := m.wizard(state.WizardID)
	if !ok || state.Step < 0 || state.Step >= len(w.Steps) {
		if err := m.repo.Delete(ctx, identity); err != nil {
			return Result{}, errors.Wrap(errors.KindPersistence, err, "Holatni o'chirib bo'lmadi")
		}
		return Result{}, errors.NotFound("Amal topilmadi. Qaytadan boshlang.")
	}
	if state.Values == nil {
		state.Values = Values{}
	}

	step := w.Steps[state.Step]
	retry := func(problem error) (Result, error) {
		m.observe(w.ID, "invalid")
		return Result{
			Status:   StatusRetry,
			WizardID: w.ID,
			Step:     state.Step,
			Prompt:   step.Prompt(state.Values),
			Problem:  problem,
		}, nil
	}

	parsed, err := step.Validate(in, state.Values)
	if err != nil {
		if errors.KindOf(err) == errors.KindUnknown {
			err = errors.Wrap(errors.KindValidation, err, "Noto'g'ri qiymat")
		}
		return retry(err)
	}

	next := state.Values.Clone().Merge(parsed)
	if step.Check != nil {
		if err := step.Check(ctx, next); err != nil {
			switch errors.KindOf(err) {
			case errors.KindValidation, errors.KindConflict:
				return retry(err)
			default:
				return Result{}, err
			}
		}
	}

	if state.Step+1 < len(w.Steps) {
		advanced := &State{WizardID: w.ID, Step: state.Step + 1, Values: next, UpdatedAt: m.now()}
		if err := m.repo.Save(ctx, identity, advanced); err != nil {
			return Result{}, errors.Wrap(errors.KindPersistence, err, "Holatni saqlab bo'lmadi")
		}
		return Result{
			Status:   StatusAdvanced,
			WizardID: w.ID,
			Step:     advanced.Step,
			Prompt:   w.Steps[advanced.Step].Prompt(next),
			Values:   next,
		}, nil
	}

	confirmation, commitErr := w.Commit(ctx, identity, next)
	if err := m.repo.Delete(ctx, identity); err != nil && commitErr == nil {
		commitErr = errors.Wrap(errors.KindPersistence, err, "Holatni o'chirib bo'lmadi")
	}
	if commitErr != nil {
		if errors.KindOf(commitErr) == errors.KindUnknown {
			commitErr = errors.Persistence(commitErr, "Saqlashda xatolik yuz berdi")
		}
		m.observe(w.ID, "failed")
		return Result{}, commitErr
	}

	m.observe(w.ID, "completed")
	return Result{
		Status:   StatusCompleted,
		WizardID: w.ID,
		Step:     len(w.Steps),
		Prompt:   confirmation,
		Values:   next,
	}, nil
}

// Cancel clears the state of identity. With no active wizard it does nothing.
func (m *Machine) Cancel(ctx context.Context, identity int64) error {
	unlock := m.locks.Lock(identity)
	defer unlock()

	state, err := m.repo.Load(ctx, identity)
	if err != nil {
		return errors.Wrap(errors.KindPersistence, err, "Holatni o'qib bo'lmadi")
	}
	if state == nil {
		return nil
	}
	if err := m.repo.Delete(ctx, identity); err != nil {
		return errors.Wrap(errors.KindPersistence, err, "Holatni o'chirib bo'lmadi")
	}
	m.observe(state.WizardID, "cancelled")
	return nil
}

// Active returns the state of identity, or nil when idle
func (m *Machine) Active(ctx context.Context, identity int64) (*State, error) {
	unlock := m.locks.Lock(identity)
	defer unlock()

	state, err := m.repo.Load(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(errors.KindPersistence, err, "Holatni o'qib bo'lmadi")
	}
	return state, nil
}

func (m *Machine) observe(wizardID, event string) {
	if m.observer != nil {
		m.observer(wizardID, event)
	}
}
