package query

import (
	"strconv"
	"time"

	"github.com/evanharte/todovault/models"
)

// GroupBy maps each distinct value of the given field to the ordered list of
// items sharing it. Sub-lists preserve input order.
func GroupBy(todos []models.Todo, field string) map[string][]models.Todo {
	groups := make(map[string][]models.Todo)
	for _, t := range todos {
		key := groupKey(&t, field)
		groups[key] = append(groups[key], t)
	}
	return groups
}

func groupKey(t *models.Todo, field string) string {
	switch field {
	case "status":
		return string(t.Status)
	case "priority":
		return string(t.Priority)
	case "complete":
		return strconv.FormatBool(t.Complete)
	case "dueDate":
		if t.DueDate == nil {
			return "none"
		}
		return t.DueDate.Format("2006-01-02")
	case "text":
		return t.Text
	}
	return ""
}

// Stats aggregates collection-level counts. ByStatus and ByPriority cover
// every enumerated variant, zero-filled when absent.
type Stats struct {
	Total      int                     `json:"total"`
	Completed  int                     `json:"completed"`
	Pending    int                     `json:"pending"`
	Overdue    int                     `json:"overdue"`
	ByStatus   map[models.Status]int   `json:"byStatus"`
	ByPriority map[models.Priority]int `json:"byPriority"`
}

// Statistics computes aggregate counts over the collection. Overdue is
// evaluated against the current time at the moment of the call.
func Statistics(todos []models.Todo) Stats {
	now := time.Now()

	s := Stats{
		ByStatus:   make(map[models.Status]int, len(models.AllStatuses)),
		ByPriority: make(map[models.Priority]int, len(models.AllPriorities)),
	}
	for _, st := range models.AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, p := range models.AllPriorities {
		s.ByPriority[p] = 0
	}

	for _, t := range todos {
		s.Total++
		if t.Complete {
			s.Completed++
		}
		if t.OverdueAt(now) {
			s.Overdue++
		}
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
	}
	s.Pending = s.Total - s.Completed
	return s
}
