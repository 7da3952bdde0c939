package todo

import (
	"time"

	"github.com/evanharte/todovault/models"
	"github.com/evanharte/todovault/query"
)

// Query helpers delegate to the query package. Results are fresh slices and
// "now" is computed at call time, never cached.

// FindTodos returns the items matching every present criterion.
func (s *Service) FindTodos(f query.Filter) []models.Todo {
	return query.Apply(s.items, f)
}

// SearchTodos performs a case-insensitive substring search over text,
// description, and tags.
func (s *Service) SearchTodos(q string) []models.Todo {
	return query.Apply(s.items, query.Filter{Search: q})
}

// ByStatus returns the items with the given status.
func (s *Service) ByStatus(status models.Status) []models.Todo {
	return query.Apply(s.items, query.Filter{Statuses: []models.Status{status}})
}

// ByPriority returns the items with the given priority.
func (s *Service) ByPriority(priority models.Priority) []models.Todo {
	return query.Apply(s.items, query.Filter{Priorities: []models.Priority{priority}})
}

// Overdue returns the items whose due date has passed and are not complete.
func (s *Service) Overdue() []models.Todo {
	now := time.Now()
	out := make([]models.Todo, 0)
	for _, item := range s.items {
		if item.OverdueAt(now) {
			out = append(out, item)
		}
	}
	return out
}

// DueToday returns the items whose due date falls within the current
// calendar day.
func (s *Service) DueToday() []models.Todo {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return query.Apply(s.items, query.Filter{DueAfter: &start, DueBefore: &end})
}

// Sorted returns a stably sorted copy of the collection.
func (s *Service) Sorted(field string, descending bool) []models.Todo {
	return query.SortBy(s.items, field, descending)
}

// GroupedBy maps distinct field values to their ordered items.
func (s *Service) GroupedBy(field string) map[string][]models.Todo {
	return query.GroupBy(s.items, field)
}

// Statistics returns aggregate counts over the collection.
func (s *Service) Statistics() query.Stats {
	return query.Statistics(s.items)
}
