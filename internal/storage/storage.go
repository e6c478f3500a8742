// Package storage defines the interface collaborators use to talk to
// the work store, decoupled from the SQLite implementation beneath it.
package storage

import (
	"context"
	"database/sql"

	"github.com/arclight/workstore/internal/storage/sqlite"
	"github.com/arclight/workstore/internal/types"
)

// Error categories, re-exported so callers need not import the sqlite
// package to match them with errors.Is.
var (
	ErrNotOpen         = sqlite.ErrNotOpen
	ErrOpenFailed      = sqlite.ErrOpenFailed
	ErrPrepareFailed   = sqlite.ErrPrepareFailed
	ErrExecuteFailed   = sqlite.ErrExecuteFailed
	ErrMigrationFailed = sqlite.ErrMigrationFailed
	ErrReentrant       = sqlite.ErrReentrant
)

// Store is the public surface of the work store. Every operation is
// serialized: exactly one executes at a time, in admission order, and
// each returns (or fails) before the next begins. Calling back into the
// store from inside an InTransaction work closure fails with
// ErrReentrant.
type Store interface {
	// Lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool
	LastRecovery() sqlite.RecoveryResult
	SchemaVersion(ctx context.Context) (int, error)

	// Statement execution
	Exec(ctx context.Context, query string, args ...any) error
	Prepare(ctx context.Context, query string, fn func(*sql.Stmt) error) error
	Query(ctx context.Context, query string, fn func(*sql.Rows) error, args ...any) error
	ExecuteUpdate(ctx context.Context, query string, args ...any) (bool, error)

	// Transactions
	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	InTransaction(ctx context.Context, work func(tx *sqlite.Tx) error) error

	// Tasks
	CreateTask(ctx context.Context, task *types.Task) error
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus) error
	DeleteTask(ctx context.Context, id string) error
	CountTasks(ctx context.Context) (int, error)

	// Issues
	CreateIssue(ctx context.Context, issue *types.Issue) error
	GetIssue(ctx context.Context, id string) (*types.Issue, error)
	ListIssues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, error)
	UpdateIssueStatus(ctx context.Context, id string, status types.IssueStatus) error
	SetIssueResult(ctx context.Context, id, result string) error
	DeleteIssue(ctx context.Context, id string) error

	// Dependencies
	AddDependency(ctx context.Context, dep *types.Dependency) error
	RemoveDependency(ctx context.Context, id string) error
	GetDependencies(ctx context.Context, issueID string) ([]*types.Dependency, error)

	// Events (append-only)
	AppendEvent(ctx context.Context, event *types.Event) error
	GetEvents(ctx context.Context, issueID string, limit int) ([]*types.Event, error)

	// Artifacts
	SaveArtifact(ctx context.Context, artifact *types.Artifact) error
	GetArtifacts(ctx context.Context, taskID string) ([]*types.Artifact, error)
	GetFinalResult(ctx context.Context, taskID string) (*types.Artifact, error)

	// Conversation
	AddTurn(ctx context.Context, turn *types.ConversationTurn) error
	GetConversation(ctx context.Context, issueID string) ([]*types.ConversationTurn, error)

	// Statistics
	Statistics(ctx context.Context) (*types.Statistics, error)
}

// Config holds store configuration.
type Config struct {
	// Path is the SQLite database file path.
	Path string

	// LegacyPath is the previous deployment's store file, checked once
	// per Open by legacy recovery. Empty disables recovery.
	LegacyPath string
}

// NewStore creates a SQLite-backed store handle. No file is touched
// until Open is called.
func NewStore(cfg Config) Store {
	return sqlite.New(cfg.Path, cfg.LegacyPath)
}
