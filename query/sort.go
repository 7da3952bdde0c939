package query

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/evanharte/todovault/models"
)

// collator performs locale-aware, case-insensitive string comparison.
// Not safe for concurrent use, which matches the single-caller model.
var collator = collate.New(language.Und, collate.Loose)

// SortBy returns a stably sorted copy of todos ordered by the given field.
// Comparison depends on the field's value type: times by epoch difference,
// strings by locale-aware collation, booleans false before true. Items with
// equal keys keep their original relative order; an unknown field leaves the
// input order untouched.
func SortBy(todos []models.Todo, field string, descending bool) []models.Todo {
	out := make([]models.Todo, len(todos))
	copy(out, todos)

	cmp := comparatorFor(field)
	if cmp == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(&out[i], &out[j])
		if descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

func comparatorFor(field string) func(a, b *models.Todo) int {
	switch field {
	case "id":
		return func(a, b *models.Todo) int { return collator.CompareString(a.ID, b.ID) }
	case "text":
		return func(a, b *models.Todo) int { return collator.CompareString(a.Text, b.Text) }
	case "description":
		return func(a, b *models.Todo) int { return collator.CompareString(a.Description, b.Description) }
	case "status":
		return func(a, b *models.Todo) int { return collator.CompareString(string(a.Status), string(b.Status)) }
	case "priority":
		return func(a, b *models.Todo) int { return collator.CompareString(string(a.Priority), string(b.Priority)) }
	case "complete":
		return func(a, b *models.Todo) int { return compareBool(a.Complete, b.Complete) }
	case "createdAt":
		return func(a, b *models.Todo) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case "updatedAt":
		return func(a, b *models.Todo) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case "dueDate":
		return func(a, b *models.Todo) int { return compareDue(a.DueDate, b.DueDate) }
	}
	return nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// compareDue orders items without a due date after those with one.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
