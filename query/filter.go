// Package query provides pure, stateless operations over an ordered
// collection of todos: filtering, sorting, grouping, and aggregate
// statistics. Inputs are never mutated.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/evanharte/todovault/models"
)

// Filter describes independently optional criteria that are ANDed together.
// A zero-value Filter matches every item.
type Filter struct {
	Statuses   []models.Status
	Priorities []models.Priority
	Complete   *bool
	// Tags matches items sharing at least one tag, case-insensitively.
	Tags []string
	// DueBefore and DueAfter are inclusive bounds on the item's own due
	// date; items without a due date never match a bounded criterion.
	DueBefore *time.Time
	DueAfter  *time.Time
	// Search is a case-insensitive substring match over text, description,
	// and tags.
	Search string
}

// Apply returns the items matching every present criterion, in input order.
func Apply(todos []models.Todo, f Filter) []models.Todo {
	tags := models.NormalizeTags(f.Tags)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if matches(&t, f, tags, search) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t *models.Todo, f Filter, tags []string, search string) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	if f.Complete != nil && t.Complete != *f.Complete {
		return false
	}
	if len(tags) > 0 && !anyTagOverlap(t.Tags, tags) {
		return false
	}
	if f.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*f.DueBefore)) {
		return false
	}
	if f.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueAfter)) {
		return false
	}
	if search != "" && !matchesSearch(t, search) {
		return false
	}
	return true
}

// anyTagOverlap assumes both slices are already normalized to lower case.
func anyTagOverlap(itemTags, wanted []string) bool {
	for _, w := range wanted {
		if slices.Contains(itemTags, w) {
			return true
		}
	}
	return false
}

func matchesSearch(t *models.Todo, search string) bool {
	if strings.Contains(strings.ToLower(t.Text), search) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), search) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(tag, search) {
			return true
		}
	}
	return false
}
