package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorkflow() *domain.Workflow {
	return &domain.Workflow{
		ID:    "nightly",
		Nodes: []domain.Node{{ID: "A", Type: "delay"}},
	}
}

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"*/5 * * * *", false},
		{"0 3 * * 1-5", false},
		{"@hourly", false},
		{"@every 90s", false},
		{"CRON_TZ=Europe/Moscow 0 9 * * *", false},
		{"", true},
		{"* * *", true},
		{"61 * * * *", true},
		{"@sometimes", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateCronExpr(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronExpr(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestNextDue(t *testing.T) {
	from := time.Date(2026, 3, 10, 10, 7, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		tz   string
		want time.Time
	}{
		{
			name: "every five minutes",
			expr: "*/5 * * * *",
			want: time.Date(2026, 3, 10, 10, 10, 0, 0, time.UTC),
		},
		{
			name: "daily in UTC",
			expr: "0 3 * * *",
			want: time.Date(2026, 3, 11, 3, 0, 0, 0, time.UTC),
		},
		{
			// Москва UTC+3 без перехода на летнее время
			name: "daily in timezone",
			expr: "0 15 * * *",
			tz:   "Europe/Moscow",
			want: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "unknown timezone falls back to UTC",
			expr: "0 15 * * *",
			tz:   "Mars/Olympus",
			want: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name: "constant delay",
			expr: "@every 1h",
			want: time.Date(2026, 3, 10, 11, 7, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.expr, tt.tz, from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("result should be in UTC, got %v", got.Location())
			}
		})
	}
}

func TestScheduler_Add(t *testing.T) {
	s := New(Config{Logger: testLogger()})

	if err := s.Add(Entry{Expr: "*/5 * * * *", Workflow: testWorkflow()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// имя по умолчанию это ID workflow
	err := s.Add(Entry{Expr: "@hourly", Workflow: testWorkflow()})
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}

	if err := s.Add(Entry{Name: "bad", Expr: "nope", Workflow: testWorkflow()}); err == nil {
		t.Error("expected error for invalid expression")
	}
	if err := s.Add(Entry{Name: "empty", Expr: "@hourly"}); err == nil {
		t.Error("expected error for nil workflow")
	}

	entries := s.Entries()
	if len(entries) != 1 || entries[0].Name != "nightly" || entries[0].Expr != "*/5 * * * *" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	if !s.Remove("nightly") {
		t.Error("Remove should report existing entry")
	}
	if s.Remove("nightly") {
		t.Error("Remove of missing entry should return false")
	}
}

func TestScheduler_Fire(t *testing.T) {
	var got []string
	s := New(Config{
		Logger: testLogger(),
		Trigger: TriggerFunc(func(ctx context.Context, e Entry) error {
			got = append(got, e.Workflow.ID)
			if e.Name == "broken" {
				return errors.New("queue down")
			}
			return nil
		}),
	})

	s.fire(context.Background(), Entry{Name: "nightly", Workflow: testWorkflow()})
	s.fire(context.Background(), Entry{Name: "broken", Workflow: testWorkflow()})

	if len(got) != 2 {
		t.Errorf("expected 2 triggers, got %d", len(got))
	}
}

func TestScheduler_FireWithoutTrigger(t *testing.T) {
	var buf bytes.Buffer
	s := New(Config{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	s.fire(context.Background(), Entry{Name: "nightly", Workflow: testWorkflow()})

	if !strings.Contains(buf.String(), "no trigger configured") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	fired := make(chan string, 1)
	s := New(Config{
		Logger: testLogger(),
		Trigger: TriggerFunc(func(ctx context.Context, e Entry) error {
			select {
			case fired <- e.Name:
			default:
			}
			return nil
		}),
	})

	if err := s.Add(Entry{Name: "fast", Expr: "@every 1s", Workflow: testWorkflow()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Start()
	defer s.Stop(context.Background())

	select {
	case name := <-fired:
		if name != "fast" {
			t.Errorf("unexpected entry %q", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled entry did not fire")
	}
}

func TestSlogCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slogCronLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Error(errors.New("boom"), "job panicked", "entry", 1)

	out := buf.String()
	if !strings.Contains(out, "job panicked") || !strings.Contains(out, "error=boom") {
		t.Errorf("unexpected log output: %q", out)
	}
}
