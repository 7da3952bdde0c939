package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evanharte/todovault/types"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateInput
		wantErr bool
	}{
		{
			name:    "valid minimal",
			input:   CreateInput{Text: "Buy milk"},
			wantErr: false,
		},
		{
			name:    "empty text",
			input:   CreateInput{Text: ""},
			wantErr: true,
		},
		{
			name:    "whitespace only text",
			input:   CreateInput{Text: "   "},
			wantErr: true, // trimmed before validation
		},
		{
			name:    "text too long",
			input:   CreateInput{Text: strings.Repeat("a", MaxTextLength+1)},
			wantErr: true,
		},
		{
			name:    "text at limit",
			input:   CreateInput{Text: strings.Repeat("a", MaxTextLength)},
			wantErr: false,
		},
		{
			name:    "description too long",
			input:   CreateInput{Text: "ok", Description: strings.Repeat("d", MaxDescriptionLength+1)},
			wantErr: true,
		},
		{
			name:    "invalid priority",
			input:   CreateInput{Text: "ok", Priority: Priority("urgent")},
			wantErr: true,
		},
		{
			name:    "invalid status",
			input:   CreateInput{Text: "ok", Status: Status("done")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(tt.input, "id-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_AccumulatesAllViolations(t *testing.T) {
	_, _, err := New(CreateInput{
		Text:        "",
		Description: strings.Repeat("d", MaxDescriptionLength+1),
		Priority:    Priority("bogus"),
	}, "id-1")
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *types.ValidationError, got %T", err)
	}
	if len(ve.Violations) != 3 {
		t.Errorf("expected 3 violations, got %d: %v", len(ve.Violations), ve.Violations)
	}
}

func TestNew_Defaults(t *testing.T) {
	todo, warnings, err := New(CreateInput{Text: "  Buy milk  "}, "id-1")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if todo.Text != "Buy milk" {
		t.Errorf("text not trimmed: got %q", todo.Text)
	}
	if todo.Status != StatusPending {
		t.Errorf("default status: got %q, want %q", todo.Status, StatusPending)
	}
	if todo.Priority != PriorityMedium {
		t.Errorf("default priority: got %q, want %q", todo.Priority, PriorityMedium)
	}
	if todo.Complete {
		t.Error("new todo should not be complete")
	}
	if todo.Tags == nil {
		t.Error("tags should be an empty slice, not nil")
	}
	if todo.CreatedAt.IsZero() || todo.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
	if !todo.CreatedAt.Equal(todo.UpdatedAt) {
		t.Error("createdAt and updatedAt should match at creation")
	}
}

func TestNew_PastDueDateWarnsNotErrors(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	todo, warnings, err := New(CreateInput{Text: "overdue already", DueDate: &past}, "id-1")
	if err != nil {
		t.Fatalf("past due date should not fail creation: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !todo.IsOverdue() {
		t.Error("todo with past due date should be overdue")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Home ", "work", "HOME", "", "Work", "errands"})
	want := []string{"home", "work", "errands"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUpdate_PartialApplication(t *testing.T) {
	todo, _, err := New(CreateInput{Text: "original", Description: "keep me", Tags: []string{"a"}}, "id-1")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	origID := todo.ID
	origCreated := todo.CreatedAt
	origUpdated := todo.UpdatedAt

	newText := "  changed  "
	if _, err := todo.Update(Changes{Text: &newText}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if todo.Text != "changed" {
		t.Errorf("text: got %q, want %q", todo.Text, "changed")
	}
	if todo.Description != "keep me" {
		t.Errorf("untouched description changed: got %q", todo.Description)
	}
	if todo.ID != origID {
		t.Error("update must not change ID")
	}
	if !todo.CreatedAt.Equal(origCreated) {
		t.Error("update must not change CreatedAt")
	}
	if todo.UpdatedAt.Before(origUpdated) {
		t.Error("UpdatedAt must be monotone non-decreasing")
	}
}

func TestUpdate_InvalidLeavesUntouched(t *testing.T) {
	todo, _, err := New(CreateInput{Text: "stable"}, "id-1")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	before := *todo.Clone()

	empty := ""
	badStatus := Status("nope")
	_, err = todo.Update(Changes{Text: &empty, Status: &badStatus})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *types.ValidationError, got %T", err)
	}
	if len(ve.Violations) != 2 {
		t.Errorf("expected 2 violations, got %v", ve.Violations)
	}

	if todo.Text != before.Text || todo.Status != before.Status || !todo.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("failed update must not modify the todo")
	}
}

func TestUpdate_ClearDueDate(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	todo, _, err := New(CreateInput{Text: "with due", DueDate: &due}, "id-1")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if todo.DueDate == nil {
		t.Fatal("due date should be set")
	}

	if _, err := todo.Update(Changes{ClearDueDate: true}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if todo.DueDate != nil {
		t.Error("due date should be cleared")
	}
}

func TestClone_NoSharedState(t *testing.T) {
	due := time.Now().Add(time.Hour)
	todo, _, err := New(CreateInput{Text: "original", Tags: []string{"a", "b"}, DueDate: &due}, "id-1")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	clone := todo.Clone()
	clone.Tags[0] = "mutated"
	*clone.DueDate = clone.DueDate.Add(time.Hour)

	if todo.Tags[0] != "a" {
		t.Error("clone shares the tag slice with the original")
	}
	if !todo.DueDate.Equal(due.UTC()) {
		t.Error("clone shares the due date pointer with the original")
	}
}

func TestDerivedFlags(t *testing.T) {
	todo, _, err := New(CreateInput{Text: "flags"}, "id-1")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !todo.IsPending() || todo.IsCompleted() || todo.IsOverdue() {
		t.Error("fresh todo should be pending only")
	}

	complete := true
	status := StatusCompleted
	if _, err := todo.Update(Changes{Complete: &complete, Status: &status}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if !todo.IsCompleted() || todo.IsPending() {
		t.Error("completed todo flags inconsistent")
	}

	// A completed item is never overdue, even with a past due date.
	past := time.Now().Add(-time.Hour)
	if _, err := todo.Update(Changes{DueDate: &past}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if todo.IsOverdue() {
		t.Error("complete todo must not be overdue")
	}
}

func TestListRoundTrip(t *testing.T) {
	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	a, _, err := New(CreateInput{Text: "first", Description: "with description", Tags: []string{"x", "y"}, DueDate: &due}, "id-a")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	b, _, err := New(CreateInput{Text: "second", Priority: PriorityCritical}, "id-b")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	data, err := MarshalList([]Todo{*a, *b})
	if err != nil {
		t.Fatalf("MarshalList failed: %v", err)
	}
	got, err := UnmarshalList(data)
	if err != nil {
		t.Fatalf("UnmarshalList failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Error("ids not preserved")
	}
	if !got[0].CreatedAt.Equal(a.CreatedAt) || !got[0].UpdatedAt.Equal(a.UpdatedAt) {
		t.Error("timestamps not preserved")
	}
	if got[0].DueDate == nil || !got[0].DueDate.Equal(due) {
		t.Error("due date not preserved")
	}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != "x" {
		t.Errorf("tags not preserved: %v", got[0].Tags)
	}
	if got[1].Priority != PriorityCritical {
		t.Errorf("priority not preserved: %v", got[1].Priority)
	}
}

func TestValidate_RejectsWhitespaceOnlyText(t *testing.T) {
	now := time.Now().UTC()
	todo := Todo{
		ID:        "ws-1",
		Text:      "   ",
		Status:    StatusPending,
		Priority:  PriorityLow,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := todo.Validate()
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 1 || !strings.Contains(verr.Violations[0], "non-empty") {
		t.Errorf("unexpected violations: %v", verr.Violations)
	}
}

func TestNormalize(t *testing.T) {
	todo := Todo{
		Text:        "  padded  ",
		Description: "  also padded  ",
		Tags:        []string{" A ", "a", "b"},
	}
	todo.Normalize()

	if todo.Text != "padded" {
		t.Errorf("text not trimmed: %q", todo.Text)
	}
	if todo.Description != "also padded" {
		t.Errorf("description not trimmed: %q", todo.Description)
	}
	if len(todo.Tags) != 2 || todo.Tags[0] != "a" || todo.Tags[1] != "b" {
		t.Errorf("tags not normalized: %v", todo.Tags)
	}
}

func TestUnmarshalList_NormalizesRecords(t *testing.T) {
	payload := `[
		{"id":"pad-1","text":"  padded  ","description":" d ","complete":false,
		 "status":"pending","priority":"low","tags":["X","x"],
		 "createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}
	]`
	got, err := UnmarshalList([]byte(payload))
	if err != nil {
		t.Fatalf("UnmarshalList failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Text != "padded" || got[0].Description != "d" {
		t.Errorf("record not trimmed: text=%q description=%q", got[0].Text, got[0].Description)
	}
	if len(got[0].Tags) != 1 {
		t.Errorf("tags not deduped: %v", got[0].Tags)
	}
}
