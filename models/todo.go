package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/evanharte/todovault/types"
)

// Status represents the lifecycle state of a todo item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// AllStatuses lists every status variant, in declaration order.
var AllStatuses = []Status{StatusPending, StatusCompleted, StatusArchived}

// Priority represents the priority level of a todo item.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// AllPriorities lists every priority variant, in declaration order.
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Field length limits enforced on create and update.
const (
	MaxTextLength        = 500
	MaxDescriptionLength = 1000
)

// Todo is a single task item. ID and CreatedAt are fixed at construction;
// every other field changes only through Update, which refreshes UpdatedAt.
type Todo struct {
	ID          string     `json:"id" yaml:"id" toml:"id" validate:"required"`
	Text        string     `json:"text" yaml:"text" toml:"text" validate:"required,notblank,max=500"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" validate:"omitempty,max=1000"`
	Complete    bool       `json:"complete" yaml:"complete" toml:"complete"`
	Status      Status     `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending completed archived"`
	Priority    Priority   `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=low medium high critical"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty"`
	Tags        []string   `json:"tags" yaml:"tags" toml:"tags"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// CreateInput carries user-supplied data for a new todo. Zero values for
// Status and Priority select the defaults (pending, medium).
type CreateInput struct {
	Text        string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	Tags        []string
	Complete    bool
}

// Changes describes a partial update. Nil pointer fields are left untouched;
// ClearDueDate removes the due date. A nil Tags slice is untouched, an empty
// one clears the tag set.
type Changes struct {
	Text         *string
	Description  *string
	Complete     *bool
	Status       *Status
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	Tags         []string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The builtin required rule accepts whitespace-only strings. Records that
	// arrive through deserialization rather than New need the trimmed check
	// enforced at the validator level.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// New builds a todo from user input, fills in defaults, and validates it.
// The second return value carries non-fatal warnings (currently only a due
// date already in the past). On validation failure it returns a
// *types.ValidationError listing every violation.
func New(input CreateInput, id string) (*Todo, []string, error) {
	now := time.Now().UTC()

	status := input.Status
	if status == "" {
		status = StatusPending
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Todo{
		ID:          id,
		Text:        strings.TrimSpace(input.Text),
		Description: strings.TrimSpace(input.Description),
		Complete:    input.Complete,
		Status:      status,
		Priority:    priority,
		Tags:        NormalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		t.DueDate = &due
	}

	if err := t.Validate(); err != nil {
		return nil, nil, err
	}
	return t, t.warnings(now), nil
}

// Update applies the present fields of changes, validates the result, and
// refreshes UpdatedAt. On failure the todo is left untouched. ID and
// CreatedAt are never modified.
func (t *Todo) Update(changes Changes) ([]string, error) {
	next := t.Clone()

	if changes.Text != nil {
		next.Text = strings.TrimSpace(*changes.Text)
	}
	if changes.Description != nil {
		next.Description = strings.TrimSpace(*changes.Description)
	}
	if changes.Complete != nil {
		next.Complete = *changes.Complete
	}
	if changes.Status != nil {
		next.Status = *changes.Status
	}
	if changes.Priority != nil {
		next.Priority = *changes.Priority
	}
	if changes.ClearDueDate {
		next.DueDate = nil
	} else if changes.DueDate != nil {
		due := changes.DueDate.UTC()
		next.DueDate = &due
	}
	if changes.Tags != nil {
		next.Tags = NormalizeTags(changes.Tags)
	}

	now := time.Now().UTC()
	if now.After(next.UpdatedAt) {
		next.UpdatedAt = now
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}

	*t = *next
	return t.warnings(now), nil
}

// Validate checks every field constraint and accumulates all violations into
// a single *types.ValidationError.
func (t *Todo) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	violations := make([]string, 0, len(verrs))
	for _, e := range verrs {
		violations = append(violations, describeViolation(e))
	}
	return &types.ValidationError{Violations: violations}
}

func describeViolation(e validator.FieldError) string {
	switch e.StructField() {
	case "Text":
		if e.Tag() == "required" || e.Tag() == "notblank" {
			return "text is required and must be non-empty"
		}
		return fmt.Sprintf("text must be at most %d characters", MaxTextLength)
	case "Description":
		return fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength)
	case "Status":
		return fmt.Sprintf("status must be one of %v (got '%v')", AllStatuses, e.Value())
	case "Priority":
		return fmt.Sprintf("priority must be one of %v (got '%v')", AllPriorities, e.Value())
	}
	return fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value())
}

func (t *Todo) warnings(now time.Time) []string {
	var ws []string
	if t.DueDate != nil && t.DueDate.Before(now) {
		ws = append(ws, fmt.Sprintf("due date %s is in the past", t.DueDate.Format(time.RFC3339)))
	}
	return ws
}

// OverdueAt reports whether the todo has a due date before the given instant
// and is not complete.
func (t *Todo) OverdueAt(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Complete
}

// IsOverdue reports whether the todo is overdue right now.
func (t *Todo) IsOverdue() bool { return t.OverdueAt(time.Now()) }

// IsPending reports whether the todo is pending and not complete.
func (t *Todo) IsPending() bool { return t.Status == StatusPending && !t.Complete }

// IsCompleted reports whether the todo is complete with a matching status.
func (t *Todo) IsCompleted() bool { return t.Complete && t.Status == StatusCompleted }

// Clone returns a deep copy sharing no mutable state with the receiver.
func (t *Todo) Clone() *Todo {
	c := *t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	c.Tags = slices.Clone(t.Tags)
	return &c
}

// Normalize applies the same cleanup New applies to user input: trimmed text
// and description, canonical tags. Deserialized records pass through here
// before validation so padded fields never reach the collection.
func (t *Todo) Normalize() {
	t.Text = strings.TrimSpace(t.Text)
	t.Description = strings.TrimSpace(t.Description)
	t.Tags = NormalizeTags(t.Tags)
}

// NormalizeTags trims, lower-cases, and deduplicates tags, dropping empty
// entries and preserving first-seen order. It always returns a non-nil slice.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
