package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/arclight/workstore/internal/types"
)

func TestCreateIssueRecordsCreationEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	issue := newTestIssue(t, s, task.ID)

	events, err := s.GetEvents(ctx, issue.ID, 0)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].EventType != types.EventCreated {
		t.Errorf("event type = %s, want created", events[0].EventType)
	}
	if events[0].Payload == nil || !strings.Contains(*events[0].Payload, issue.ID) {
		t.Error("creation event payload does not carry the issue")
	}
}

func TestCreateIssueRejectsMissingTask(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.CreateIssue(ctx, &types.Issue{TaskID: "no-such-task", Title: "Orphan"})
	if err == nil {
		t.Fatal("CreateIssue accepted an issue for a missing task")
	}
}

func TestUpdateIssueStatusAppendsEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	issue := newTestIssue(t, s, task.ID)

	if err := s.UpdateIssueStatus(ctx, issue.ID, types.StatusInProgress); err != nil {
		t.Fatalf("UpdateIssueStatus failed: %v", err)
	}

	got, err := s.GetIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
	if got.Status != types.StatusInProgress {
		t.Errorf("status = %s, want in_progress", got.Status)
	}

	events, err := s.GetEvents(ctx, issue.ID, 0)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	last := events[len(events)-1]
	if last.EventType != types.EventStatusChanged {
		t.Errorf("event type = %s, want status_changed", last.EventType)
	}
	if last.Payload == nil || !strings.Contains(*last.Payload, "in_progress") {
		t.Error("status event payload missing the new status")
	}

	if err := s.UpdateIssueStatus(ctx, "missing", types.StatusClosed); err == nil {
		t.Error("UpdateIssueStatus accepted a missing issue")
	}
}

func TestSetIssueResult(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	issue := newTestIssue(t, s, task.ID)

	if err := s.SetIssueResult(ctx, issue.ID, "all done"); err != nil {
		t.Fatalf("SetIssueResult failed: %v", err)
	}

	got, err := s.GetIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
	if got.Result == nil || *got.Result != "all done" {
		t.Errorf("result = %v, want %q", got.Result, "all done")
	}

	// A failed SetIssueResult must not leave a stray event behind.
	if err := s.SetIssueResult(ctx, "missing", "x"); err == nil {
		t.Fatal("SetIssueResult accepted a missing issue")
	}
	events, err := s.GetEvents(ctx, "missing", 0)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events recorded for failed update: %d", len(events))
	}
}

func TestListIssuesFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	other := newTestTask(t, s)

	a := newTestIssue(t, s, task.ID)
	newTestIssue(t, s, task.ID)
	newTestIssue(t, s, other.ID)

	if err := s.UpdateIssueStatus(ctx, a.ID, types.StatusClosed); err != nil {
		t.Fatalf("UpdateIssueStatus failed: %v", err)
	}

	byTask, err := s.ListIssues(ctx, types.IssueFilter{TaskID: &task.ID})
	if err != nil {
		t.Fatalf("ListIssues by task failed: %v", err)
	}
	if len(byTask) != 2 {
		t.Errorf("issues for task = %d, want 2", len(byTask))
	}

	closed := types.StatusClosed
	byStatus, err := s.ListIssues(ctx, types.IssueFilter{TaskID: &task.ID, Status: &closed})
	if err != nil {
		t.Fatalf("ListIssues by status failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != a.ID {
		t.Errorf("closed issues = %+v, want just %s", byStatus, a.ID)
	}

	limited, err := s.ListIssues(ctx, types.IssueFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListIssues with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited issues = %d, want 1", len(limited))
	}
}

func TestAppendAndGetEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	issue := newTestIssue(t, s, task.ID)

	payload := `{"note":"checkpoint"}`
	event := &types.Event{IssueID: issue.ID, EventType: types.EventComment, Payload: &payload}
	if err := s.AppendEvent(ctx, event); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if event.ID == 0 {
		t.Error("AppendEvent did not assign an id")
	}

	events, err := s.GetEvents(ctx, issue.ID, 0)
	if err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].EventType != types.EventCreated || events[1].EventType != types.EventComment {
		t.Errorf("events out of creation order: %s, %s", events[0].EventType, events[1].EventType)
	}

	limited, err := s.GetEvents(ctx, issue.ID, 1)
	if err != nil {
		t.Fatalf("GetEvents with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited events = %d, want 1", len(limited))
	}
}
