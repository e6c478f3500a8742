package sqlite

import (
	"context"
	"testing"

	"github.com/arclight/workstore/internal/types"
)

func TestDependencies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	a := newTestIssue(t, s, task.ID)
	b := newTestIssue(t, s, task.ID)

	dep := &types.Dependency{FromIssueID: a.ID, ToIssueID: b.ID}
	if err := s.AddDependency(ctx, dep); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}
	if dep.Type != types.DepBlocks {
		t.Errorf("default type = %s, want blocks", dep.Type)
	}

	// Visible from both endpoints.
	for _, id := range []string{a.ID, b.ID} {
		deps, err := s.GetDependencies(ctx, id)
		if err != nil {
			t.Fatalf("GetDependencies(%s) failed: %v", id, err)
		}
		if len(deps) != 1 || deps[0].ID != dep.ID {
			t.Errorf("GetDependencies(%s) = %+v", id, deps)
		}
	}

	if err := s.RemoveDependency(ctx, dep.ID); err != nil {
		t.Fatalf("RemoveDependency failed: %v", err)
	}
	deps, err := s.GetDependencies(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetDependencies failed: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("dependency still present after remove: %+v", deps)
	}
}

func TestAddDependencyValidates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)
	a := newTestIssue(t, s, task.ID)

	err := s.AddDependency(ctx, &types.Dependency{FromIssueID: a.ID, ToIssueID: a.ID})
	if err == nil {
		t.Error("AddDependency accepted a self-dependency")
	}

	err = s.AddDependency(ctx, &types.Dependency{
		FromIssueID: a.ID, ToIssueID: "", Type: types.DepBlocks,
	})
	if err == nil {
		t.Error("AddDependency accepted an empty endpoint")
	}
}
