// Package todo implements the stateful store/service owning the canonical
// todo collection. It orchestrates CRUD and bulk operations, delegates
// queries to the query package, and drives the persistence and notification
// contract against a durable blob store.
package todo

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/evanharte/todovault/idgen"
	"github.com/evanharte/todovault/models"
	"github.com/evanharte/todovault/store"
	"github.com/evanharte/todovault/types"
)

// Default blob-store keys for the collection and its backup snapshot.
const (
	DefaultPrimaryKey = "todovault.items"
	DefaultBackupKey  = "todovault.backup"
)

// Op tags the kind of mutation reported to the operation listener.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeListener observes the whole collection after each commit. It receives
// a defensive copy of the sequence; individual items are not deep-copied.
type ChangeListener func(items []models.Todo)

// OperationListener observes each mutated item with its operation tag.
type OperationListener func(op Op, item models.Todo)

// Service owns the canonical in-memory collection and the durable store
// reference. It assumes a single logical caller; no internal locking.
type Service struct {
	items      []models.Todo
	blobs      store.BlobStore
	primaryKey string
	backupKey  string
	ids        idgen.Generator
	log        *slog.Logger

	// Single listener slot per event kind; re-registration overwrites.
	onChange ChangeListener
	onOp     OperationListener
}

// Option configures a Service.
type Option func(*Service)

// WithKeys overrides the primary and backup blob-store keys.
func WithKeys(primary, backup string) Option {
	return func(s *Service) {
		if primary != "" {
			s.primaryKey = primary
		}
		if backup != "" {
			s.backupKey = backup
		}
	}
}

// WithIDGenerator swaps the id generator, e.g. for a deterministic one in
// tests.
func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithLogger sets the logger used for warnings and skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService builds a service over the given blob store and performs one load
// from the primary key. A failed or absent load starts an empty collection;
// construction never fails.
func NewService(blobs store.BlobStore, opts ...Option) *Service {
	s := &Service{
		blobs:      blobs,
		primaryKey: DefaultPrimaryKey,
		backupKey:  DefaultBackupKey,
		ids:        idgen.UUID{},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Service) load() {
	s.items = []models.Todo{}
	data, err := s.blobs.Get(s.primaryKey)
	if err != nil {
		if !errors.Is(err, types.ErrKeyNotFound) {
			s.log.Warn("loading stored items failed, starting empty", "key", s.primaryKey, "error", err)
		}
		return
	}
	items, err := models.UnmarshalList(data)
	if err != nil {
		s.log.Warn("stored items are undecodable, starting empty", "key", s.primaryKey, "error", err)
		return
	}
	s.items = items
}

// commit replaces the collection reference, persists it, then notifies the
// registered listeners. A failed write propagates as a *types.StorageError
// and suppresses notification.
func (s *Service) commit(next []models.Todo, op Op, touched ...models.Todo) error {
	s.items = next
	data, err := models.MarshalList(next)
	if err != nil {
		return &types.StorageError{Op: "marshal", Err: err}
	}
	if err := s.blobs.Put(s.primaryKey, data); err != nil {
		return &types.StorageError{Op: "write", Err: err}
	}
	s.log.Debug("committed collection", "op", string(op), "total", len(next), "touched", len(touched))
	if s.onChange != nil {
		s.onChange(s.copyItems())
	}
	if s.onOp != nil {
		for _, item := range touched {
			s.onOp(op, item)
		}
	}
	return nil
}

func (s *Service) copyItems() []models.Todo {
	return slices.Clone(s.items)
}

func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(t models.Todo) bool { return t.ID == id })
}

// Add validates and appends a new todo built from text and priority. A zero
// priority defaults to medium.
func (s *Service) Add(text string, priority models.Priority) (models.Todo, error) {
	return s.AddFull(models.CreateInput{Text: text, Priority: priority})
}

// AddFull validates and appends a new todo built from the full input.
func (s *Service) AddFull(input models.CreateInput) (models.Todo, error) {
	item, warnings, err := models.New(input, s.ids.NewID())
	if err != nil {
		return models.Todo{}, err
	}
	for _, w := range warnings {
		s.log.Warn("todo created with warning", "id", item.ID, "warning", w)
	}
	next := append(s.copyItems(), *item)
	if err := s.commit(next, OpAdd, *item); err != nil {
		return models.Todo{}, err
	}
	return *item, nil
}

// Get looks up a todo by id. It has no side effects.
func (s *Service) Get(id string) (models.Todo, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	return models.Todo{}, false
}

// UpdatePartial validates and applies a partial change to the identified
// todo, then commits. Unknown ids fail with *types.NotFoundError.
func (s *Service) UpdatePartial(id string, changes models.Changes) (models.Todo, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Todo{}, &types.NotFoundError{ID: id}
	}
	next := s.copyItems()
	item := next[idx].Clone()
	warnings, err := item.Update(changes)
	if err != nil {
		return models.Todo{}, err
	}
	for _, w := range warnings {
		s.log.Warn("todo updated with warning", "id", id, "warning", w)
	}
	next[idx] = *item
	if err := s.commit(next, OpUpdate, *item); err != nil {
		return models.Todo{}, err
	}
	return *item, nil
}

// Remove deletes the identified todo and commits. An unknown id returns
// (false, nil) with no side effects; no listener fires.
func (s *Service) Remove(id string) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	removed := s.items[idx]
	next := make([]models.Todo, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.commit(next, OpDelete, removed); err != nil {
		return false, err
	}
	return true, nil
}

// Toggle flips the completion flag and synchronizes status between pending
// and completed. Toggling an archived item is an undefined transition and
// fails with types.ErrUnsupportedTransition, leaving the item untouched.
func (s *Service) Toggle(id string) (models.Todo, error) {
	item, ok := s.Get(id)
	if !ok {
		return models.Todo{}, &types.NotFoundError{ID: id}
	}
	if item.Status == models.StatusArchived {
		return models.Todo{}, fmt.Errorf("toggle '%s': %w", id, types.ErrUnsupportedTransition)
	}
	complete := !item.Complete
	status := models.StatusCompleted
	if !complete {
		status = models.StatusPending
	}
	return s.UpdatePartial(id, models.Changes{Complete: &complete, Status: &status})
}

// List returns a defensive copy of the collection in insertion order.
func (s *Service) List() []models.Todo {
	return s.copyItems()
}

// OnChange registers the collection listener. There is a single slot:
// registering again replaces the previous listener, nil unregisters.
func (s *Service) OnChange(fn ChangeListener) { s.onChange = fn }

// OnOperation registers the per-item operation listener. Same single-slot
// semantics as OnChange.
func (s *Service) OnOperation(fn OperationListener) { s.onOp = fn }
