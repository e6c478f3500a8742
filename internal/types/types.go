// Package types defines the domain model persisted by the work store.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a top-level unit of work submitted by a user. A task owns
// issues (the individual work items derived from it) and artifacts
// (files produced while working on it).
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Query     string     `json:"query"`
	PersonaID *string    `json:"persona_id,omitempty"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(t.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid task status: %s", t.Status)
	}
	return nil
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskPaused    TaskStatus = "paused"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// IsValid checks if the task status value is valid.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskActive, TaskPaused, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Issue is a trackable work item belonging to a task.
type Issue struct {
	ID          string      `json:"id"`
	TaskID      string      `json:"task_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Context     string      `json:"context,omitempty"`
	Status      IssueStatus `json:"status"`
	Priority    int         `json:"priority"`
	IssueType   IssueType   `json:"issue_type"`
	Result      *string     `json:"result,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validate checks that the issue has valid field values.
func (i *Issue) Validate() error {
	if i.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if len(i.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(i.Title))
	}
	if i.Priority < 0 || i.Priority > 4 {
		return fmt.Errorf("priority must be between 0 and 4 (got %d)", i.Priority)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	if !i.IssueType.IsValid() {
		return fmt.Errorf("invalid issue type: %s", i.IssueType)
	}
	return nil
}

// IssueStatus represents the current state of an issue.
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusBlocked    IssueStatus = "blocked"
	StatusClosed     IssueStatus = "closed"
)

// IsValid checks if the status value is valid.
func (s IssueStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusClosed:
		return true
	}
	return false
}

// IssueType categorizes the kind of work.
type IssueType string

const (
	TypeTask     IssueType = "task"
	TypeBug      IssueType = "bug"
	TypeResearch IssueType = "research"
	TypeChore    IssueType = "chore"
)

// IsValid checks if the issue type value is valid.
func (t IssueType) IsValid() bool {
	switch t {
	case TypeTask, TypeBug, TypeResearch, TypeChore:
		return true
	}
	return false
}

// Dependency is a typed edge between two issues.
type Dependency struct {
	ID          string         `json:"id"`
	FromIssueID string         `json:"from_issue_id"`
	ToIssueID   string         `json:"to_issue_id"`
	Type        DependencyType `json:"type"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate checks that the dependency has valid field values.
func (d *Dependency) Validate() error {
	if d.FromIssueID == "" || d.ToIssueID == "" {
		return fmt.Errorf("both dependency endpoints are required")
	}
	if d.FromIssueID == d.ToIssueID {
		return fmt.Errorf("an issue cannot depend on itself")
	}
	if !d.Type.IsValid() {
		return fmt.Errorf("invalid dependency type: %s", d.Type)
	}
	return nil
}

// DependencyType describes how two issues relate.
type DependencyType string

const (
	DepBlocks      DependencyType = "blocks"
	DepRelated     DependencyType = "related"
	DepParentChild DependencyType = "parent-child"
)

// IsValid checks if the dependency type value is valid.
func (t DependencyType) IsValid() bool {
	switch t {
	case DepBlocks, DepRelated, DepParentChild:
		return true
	}
	return false
}

// Event is one entry in an issue's append-only audit trail. Events are
// never updated or deleted except by cascade when the issue goes away.
type Event struct {
	ID        int64     `json:"id"`
	IssueID   string    `json:"issue_id"`
	EventType EventType `json:"event_type"`
	Payload   *string   `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType identifies what happened to an issue.
type EventType string

const (
	EventCreated       EventType = "created"
	EventStatusChanged EventType = "status_changed"
	EventResultSet     EventType = "result_set"
	EventComment       EventType = "comment"
)

// Artifact is a file generated while working on a task.
type Artifact struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"task_id"`
	Filename      string    `json:"filename"`
	Content       string    `json:"content"`
	ContentType   string    `json:"content_type"`
	IsFinalResult bool      `json:"is_final_result"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks that the artifact has valid field values.
func (a *Artifact) Validate() error {
	if a.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if a.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	return nil
}

// ConversationTurn is one exchange in the agent conversation attached to
// an issue. TurnOrder is a caller-assigned total order within the issue.
type ConversationTurn struct {
	ID          string    `json:"id"`
	IssueID     string    `json:"issue_id"`
	TurnOrder   int       `json:"turn_order"`
	Role        TurnRole  `json:"role"`
	Content     string    `json:"content"`
	Thinking    *string   `json:"thinking,omitempty"`
	ToolCalls   *string   `json:"tool_calls,omitempty"`
	ToolResults *string   `json:"tool_results,omitempty"`
	ToolCallID  *string   `json:"tool_call_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks that the turn has valid field values.
func (c *ConversationTurn) Validate() error {
	if c.IssueID == "" {
		return fmt.Errorf("issue_id is required")
	}
	if c.TurnOrder < 0 {
		return fmt.Errorf("turn_order cannot be negative (got %d)", c.TurnOrder)
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("invalid role: %s", c.Role)
	}
	return nil
}

// TurnRole identifies the speaker of a conversation turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
	RoleTool      TurnRole = "tool"
)

// IsValid checks if the role value is valid.
func (r TurnRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// TaskFilter narrows ListTasks results. Nil fields match everything.
type TaskFilter struct {
	Status    *TaskStatus
	PersonaID *string
	Limit     int
}

// IssueFilter narrows ListIssues results. Nil fields match everything.
type IssueFilter struct {
	TaskID   *string
	Status   *IssueStatus
	Priority *int
	Limit    int
}

// Statistics summarizes row counts across the store.
type Statistics struct {
	Tasks             int `json:"tasks"`
	Issues            int `json:"issues"`
	Dependencies      int `json:"dependencies"`
	Events            int `json:"events"`
	Artifacts         int `json:"artifacts"`
	ConversationTurns int `json:"conversation_turns"`
}

// NewID returns a fresh identifier for a store row.
func NewID() string {
	return uuid.NewString()
}
