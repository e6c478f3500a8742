package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	task := Task{Title: "Research topic", Query: "what is X", Status: TaskActive}
	assert.NoError(t, task.Validate())

	missingTitle := task
	missingTitle.Title = "  "
	assert.Error(t, missingTitle.Validate())

	missingQuery := task
	missingQuery.Query = ""
	assert.Error(t, missingQuery.Validate())

	badStatus := task
	badStatus.Status = "sleeping"
	assert.Error(t, badStatus.Validate())
}

func TestIssueValidate(t *testing.T) {
	issue := Issue{TaskID: "t1", Title: "Do a thing", Status: StatusOpen, Priority: 2, IssueType: TypeTask}
	require.NoError(t, issue.Validate())

	tests := []struct {
		name   string
		mutate func(*Issue)
	}{
		{"missing task", func(i *Issue) { i.TaskID = "" }},
		{"missing title", func(i *Issue) { i.Title = "" }},
		{"title too long", func(i *Issue) { i.Title = strings.Repeat("x", 501) }},
		{"priority too high", func(i *Issue) { i.Priority = 5 }},
		{"priority negative", func(i *Issue) { i.Priority = -1 }},
		{"bad status", func(i *Issue) { i.Status = "done-ish" }},
		{"bad type", func(i *Issue) { i.IssueType = "wish" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := issue
			tt.mutate(&bad)
			assert.Error(t, bad.Validate())
		})
	}
}

func TestDependencyValidate(t *testing.T) {
	dep := Dependency{FromIssueID: "a", ToIssueID: "b", Type: DepBlocks}
	assert.NoError(t, dep.Validate())

	self := dep
	self.ToIssueID = "a"
	assert.Error(t, self.Validate())

	badType := dep
	badType.Type = "wants"
	assert.Error(t, badType.Validate())
}

func TestConversationTurnValidate(t *testing.T) {
	turn := ConversationTurn{IssueID: "i1", TurnOrder: 0, Role: RoleAssistant}
	assert.NoError(t, turn.Validate())

	negative := turn
	negative.TurnOrder = -1
	assert.Error(t, negative.Validate())

	badRole := turn
	badRole.Role = "narrator"
	assert.Error(t, badRole.Validate())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, TaskActive.IsValid())
	assert.False(t, TaskStatus("zzz").IsValid())
	assert.True(t, StatusInProgress.IsValid())
	assert.False(t, IssueStatus("zzz").IsValid())
	assert.True(t, TypeResearch.IsValid())
	assert.False(t, IssueType("zzz").IsValid())
	assert.True(t, RoleTool.IsValid())
	assert.False(t, TurnRole("zzz").IsValid())
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
