package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		wf      *domain.Workflow
		wantErr error
	}{
		{
			name: "valid",
			wf: &domain.Workflow{
				Nodes: []domain.Node{{ID: "start", Type: "start"}, {ID: "A", Type: "cloudwatch"}},
				Edges: []domain.Edge{edge("start", "A")},
			},
		},
		{
			name:    "nil workflow",
			wf:      nil,
			wantErr: ErrEmptyWorkflow,
		},
		{
			name:    "no nodes",
			wf:      &domain.Workflow{},
			wantErr: ErrEmptyWorkflow,
		},
		{
			name:    "empty ID",
			wf:      &domain.Workflow{Nodes: []domain.Node{{Type: "http"}}},
			wantErr: ErrEmptyNodeID,
		},
		{
			name:    "dot in ID",
			wf:      &domain.Workflow{Nodes: []domain.Node{{ID: "a.b", Type: "http"}}},
			wantErr: ErrInvalidNodeID,
		},
		{
			name: "duplicate ID",
			wf: &domain.Workflow{Nodes: []domain.Node{
				{ID: "A", Type: "http"},
				{ID: "A", Type: "delay"},
			}},
			wantErr: ErrDuplicateNodeID,
		},
		{
			name:    "empty type",
			wf:      &domain.Workflow{Nodes: []domain.Node{{ID: "A", Type: "  "}}},
			wantErr: ErrEmptyNodeType,
		},
		{
			name: "cycle",
			wf: &domain.Workflow{
				Nodes: nodes("A", "B"),
				Edges: []domain.Edge{edge("A", "B"), edge("B", "A")},
			},
			wantErr: ErrCyclicDependency,
		},
		{
			name: "unknown edge endpoint is not an error",
			wf: &domain.Workflow{
				Nodes: nodes("A"),
				Edges: []domain.Edge{edge("A", "ghost")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.wf)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_ErrorContext(t *testing.T) {
	wf := &domain.Workflow{Nodes: []domain.Node{
		{ID: "A", Type: "http"},
		{ID: "B", Type: ""},
	}}

	err := Validate(wf)

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.NodeID != "B" || valErr.Field != "type" {
		t.Errorf("unexpected context: node=%q field=%q", valErr.NodeID, valErr.Field)
	}
	if !strings.HasPrefix(valErr.Error(), "node B:") {
		t.Errorf("unexpected message: %s", valErr.Error())
	}
}

func TestWarnings(t *testing.T) {
	wf := &domain.Workflow{
		Nodes: nodes("A", "B"),
		Edges: []domain.Edge{
			{ID: "e1", Source: "A", Target: "B"},
			{ID: "e2", Source: "ghost", Target: "B"},
			{Source: "A", Target: "missing"},
		},
	}

	warnings := Warnings(wf)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "e2") || !strings.Contains(warnings[0], "ghost") {
		t.Errorf("unexpected warning: %s", warnings[0])
	}
	if !strings.Contains(warnings[1], "#2") {
		t.Errorf("edge without ID should be named by index: %s", warnings[1])
	}

	if Warnings(nil) != nil {
		t.Error("nil workflow should have no warnings")
	}
}
