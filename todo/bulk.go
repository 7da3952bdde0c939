package todo

import (
	"github.com/evanharte/todovault/models"
)

// AddMany validates each text independently, skipping invalid entries with a
// logged warning, and commits all accepted todos at once. It returns the
// accepted items.
func (s *Service) AddMany(texts []string) ([]models.Todo, error) {
	next := s.copyItems()
	accepted := make([]models.Todo, 0, len(texts))
	for i, text := range texts {
		item, _, err := models.New(models.CreateInput{Text: text}, s.ids.NewID())
		if err != nil {
			s.log.Warn("skipping invalid entry", "index", i, "error", err)
			continue
		}
		next = append(next, *item)
		accepted = append(accepted, *item)
	}
	if len(accepted) == 0 {
		return accepted, nil
	}
	if err := s.commit(next, OpAdd, accepted...); err != nil {
		return nil, err
	}
	return accepted, nil
}

// RemoveMany deletes every matching id in a single commit and returns the
// number removed.
func (s *Service) RemoveMany(ids []string) (int, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	next := make([]models.Todo, 0, len(s.items))
	var removed []models.Todo
	for _, item := range s.items {
		if _, ok := drop[item.ID]; ok {
			removed = append(removed, item)
			continue
		}
		next = append(next, item)
	}
	if len(removed) == 0 {
		return 0, nil
	}
	if err := s.commit(next, OpDelete, removed...); err != nil {
		return 0, err
	}
	return len(removed), nil
}

// ToggleAll applies the toggle semantics to every non-archived item in one
// batched commit. Archived items are left untouched, consistent with Toggle.
func (s *Service) ToggleAll(complete bool) error {
	status := models.StatusCompleted
	if !complete {
		status = models.StatusPending
	}

	next := s.copyItems()
	var changed []models.Todo
	for i := range next {
		if next[i].Status == models.StatusArchived {
			continue
		}
		if next[i].Complete == complete && next[i].Status == status {
			continue
		}
		item := next[i].Clone()
		if _, err := item.Update(models.Changes{Complete: &complete, Status: &status}); err != nil {
			s.log.Warn("skipping invalid entry", "id", item.ID, "error", err)
			continue
		}
		next[i] = *item
		changed = append(changed, *item)
	}
	if len(changed) == 0 {
		return nil
	}
	return s.commit(next, OpUpdate, changed...)
}

// ClearCompleted removes every complete item in one commit and returns the
// number removed.
func (s *Service) ClearCompleted() (int, error) {
	next := make([]models.Todo, 0, len(s.items))
	var removed []models.Todo
	for _, item := range s.items {
		if item.Complete {
			removed = append(removed, item)
			continue
		}
		next = append(next, item)
	}
	if len(removed) == 0 {
		return 0, nil
	}
	if err := s.commit(next, OpDelete, removed...); err != nil {
		return 0, err
	}
	return len(removed), nil
}
