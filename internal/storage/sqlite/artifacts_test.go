package sqlite

import (
	"context"
	"testing"

	"github.com/arclight/workstore/internal/types"
)

func TestArtifacts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)

	if err := s.SaveArtifact(ctx, &types.Artifact{
		TaskID:   task.ID,
		Filename: "notes.md",
		Content:  "scratch",
	}); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}
	final := &types.Artifact{
		TaskID:        task.ID,
		Filename:      "report.md",
		Content:       "# Report",
		ContentType:   "text/markdown",
		IsFinalResult: true,
	}
	if err := s.SaveArtifact(ctx, final); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}

	artifacts, err := s.GetArtifacts(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetArtifacts failed: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(artifacts))
	}
	if artifacts[0].ContentType != "text/plain" {
		t.Errorf("default content type = %s, want text/plain", artifacts[0].ContentType)
	}

	got, err := s.GetFinalResult(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetFinalResult failed: %v", err)
	}
	if got == nil || got.Filename != "report.md" || !got.IsFinalResult {
		t.Errorf("GetFinalResult = %+v", got)
	}
}

func TestGetFinalResultWhenNone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := newTestTask(t, s)

	got, err := s.GetFinalResult(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetFinalResult failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetFinalResult = %+v, want nil", got)
	}
}
