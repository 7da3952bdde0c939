package todo

import (
	"github.com/evanharte/todovault/models"
	"github.com/evanharte/todovault/snapshot"
	"github.com/evanharte/todovault/types"
)

// Export yields a versioned snapshot of the current collection.
func (s *Service) Export() snapshot.Snapshot {
	return snapshot.New(s.copyItems())
}

// ExportAs serializes an export snapshot in the given format (json, yaml, or
// toml).
func (s *Service) ExportAs(format string) ([]byte, error) {
	return snapshot.Encode(s.Export(), format)
}

// Import parses a JSON snapshot payload, validates each item, silently drops
// invalid ones (with a logged warning), appends the rest in one commit, and
// returns the accepted count. A payload lacking an items array fails with
// *types.InvalidDataError.
func (s *Service) Import(data []byte) (int, error) {
	return s.ImportAs(snapshot.FormatJSON, data)
}

// ImportAs is Import for an explicit snapshot format.
func (s *Service) ImportAs(format string, data []byte) (int, error) {
	snap, err := snapshot.Decode(data, format)
	if err != nil {
		return 0, err
	}
	return s.importSnapshot(snap)
}

func (s *Service) importSnapshot(snap snapshot.Snapshot) (int, error) {
	next := s.copyItems()
	accepted := make([]models.Todo, 0, len(snap.Items))
	for i := range snap.Items {
		item := snap.Items[i]
		item.Normalize()
		if err := item.Validate(); err != nil {
			s.log.Warn("dropping invalid imported item", "index", i, "id", item.ID, "error", err)
			continue
		}
		next = append(next, item)
		accepted = append(accepted, item)
	}
	if len(accepted) > 0 {
		if err := s.commit(next, OpAdd, accepted...); err != nil {
			return 0, err
		}
	}
	return len(accepted), nil
}

// Backup writes an export snapshot to the secondary blob-store slot.
func (s *Service) Backup() error {
	data, err := snapshot.Encode(s.Export(), snapshot.FormatJSON)
	if err != nil {
		return &types.StorageError{Op: "backup", Err: err}
	}
	if err := s.blobs.Put(s.backupKey, data); err != nil {
		return &types.StorageError{Op: "backup", Err: err}
	}
	return nil
}

// Restore clears the current collection, then imports the snapshot. Every
// internal failure is caught, logged, and reported as false; nothing
// propagates. On failure the previous collection is kept.
func (s *Service) Restore(snap snapshot.Snapshot) bool {
	prev := s.items
	s.items = []models.Todo{}
	count, err := s.importSnapshot(snap)
	if err != nil {
		s.log.Warn("restore failed", "error", err)
		s.items = prev
		return false
	}
	if count == 0 {
		// Nothing acceptable in the snapshot; the cleared collection still
		// has to reach the durable store.
		if err := s.commit([]models.Todo{}, OpUpdate); err != nil {
			s.log.Warn("restore failed", "error", err)
			s.items = prev
			return false
		}
	}
	return true
}

// RestoreLatest restores from the snapshot in the secondary blob-store slot.
func (s *Service) RestoreLatest() bool {
	data, err := s.blobs.Get(s.backupKey)
	if err != nil {
		s.log.Warn("no backup snapshot available", "key", s.backupKey, "error", err)
		return false
	}
	snap, err := snapshot.Decode(data, snapshot.FormatJSON)
	if err != nil {
		s.log.Warn("backup snapshot is undecodable", "error", err)
		return false
	}
	return s.Restore(snap)
}

// ValidateAll returns the subset of current items failing validation.
func (s *Service) ValidateAll() []models.Todo {
	invalid := []models.Todo{}
	for _, item := range s.items {
		if err := item.Validate(); err != nil {
			invalid = append(invalid, item)
		}
	}
	return invalid
}

// Repair removes every invalid item and commits only when something was
// actually removed, returning the removed count.
func (s *Service) Repair() (int, error) {
	next := make([]models.Todo, 0, len(s.items))
	var removed []models.Todo
	for _, item := range s.items {
		if err := item.Validate(); err != nil {
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
