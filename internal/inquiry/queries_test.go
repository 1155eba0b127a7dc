package inquiry

import (
	"context"
	"testing"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
)

type stubService struct {
	listCalls  int
	getCalls   int
	statsCalls int
	bulkCalls  int
	record     Inquiry
}

func (s *stubService) Create(ctx context.Context, input CreateInput) (*Inquiry, error) {
	record := s.record
	record.Name = input.Name
	return &record, nil
}

func (s *stubService) List(ctx context.Context, filter ListFilter) ([]Inquiry, error) {
	s.listCalls++
	return []Inquiry{s.record}, nil
}

func (s *stubService) Get(ctx context.Context, id string) (*Inquiry, error) {
	s.getCalls++
	record := s.record
	record.ID = id
	return &record, nil
}

func (s *stubService) UpdateStatus(ctx context.Context, id string, status Status) (*Inquiry, error) {
	record := s.record
	record.ID = id
	record.Status = status
	return &record, nil
}

func (s *stubService) AddNote(ctx context.Context, id, note string) (*Inquiry, error) {
	record := s.record
	record.ID = id
	record.AdminNote = note
	return &record, nil
}

func (s *stubService) Delete(ctx context.Context, id string) error { return nil }

func (s *stubService) BulkAction(ctx context.Context, input BulkActionInput) (*BulkActionResult, error) {
	s.bulkCalls++
	return &BulkActionResult{Affected: len(input.IDs)}, nil
}

func (s *stubService) Stats(ctx context.Context) (*Stats, error) {
	s.statsCalls++
	return &Stats{Total: 1, Pending: 1}, nil
}

func (s *stubService) ExportCSV(ctx context.Context) ([]byte, error) {
	return []byte("id\n"), nil
}

func newQueries(t *testing.T, svc Service) (*Queries, *notify.Recorder) {
	t.Helper()
	rec := notify.NewRecorder()
	queries, err := NewQueries(QueriesParams{
		Service: svc,
		Cache:   cache.New(cache.NewMemoryStore(), nil),
		TTL: config.CacheConfig{
			ListTTL:   30 * time.Second,
			DetailTTL: 5 * time.Minute,
			StatsTTL:  time.Minute,
		},
		Notifier: rec,
	})
	if err != nil {
		t.Fatalf("NewQueries: %v", err)
	}
	return queries, rec
}

func TestBulkActionStalesListAndStats(t *testing.T) {
	svc := &stubService{record: Inquiry{ID: "i1", Status: StatusPending}}
	queries, rec := newQueries(t, svc)
	ctx := context.Background()

	if _, err := queries.List(ctx, ListFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := queries.Stats(ctx); err != nil {
		t.Fatalf("Stats: %v", err)
	}

	result, err := queries.BulkAction(ctx, BulkActionInput{
		Action: BulkUpdateStatus,
		Status: StatusContacted,
		IDs:    []string{"i1", "i2", "i3", "i4", "i5"},
	})
	if err != nil {
		t.Fatalf("BulkAction: %v", err)
	}
	if result.Affected != 5 || svc.bulkCalls != 1 {
		t.Fatalf("expected one bulk call over 5 ids, got %+v after %d calls", result, svc.bulkCalls)
	}

	// Both aggregates refetch after the bulk mutation.
	if _, err := queries.List(ctx, ListFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := queries.Stats(ctx); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if svc.listCalls != 2 || svc.statsCalls != 2 {
		t.Fatalf("bulk action must stale list and stats, got list=%d stats=%d", svc.listCalls, svc.statsCalls)
	}

	last, _ := rec.Last()
	if last.Level != notify.LevelSuccess {
		t.Fatalf("bulk success must notify, got %+v", last)
	}
}

func TestUpdateStatusPatchesDetail(t *testing.T) {
	svc := &stubService{record: Inquiry{ID: "i1", Status: StatusPending}}
	queries, _ := newQueries(t, svc)
	ctx := context.Background()

	if _, err := queries.UpdateStatus(ctx, "i1", StatusContacted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	record, err := queries.Get(ctx, "i1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Status != StatusContacted {
		t.Fatalf("detail cache holds %q, want the mutated record", record.Status)
	}
}

func TestCreateSeedsDetailEntry(t *testing.T) {
	svc := &stubService{record: Inquiry{ID: "i1", Status: StatusPending}}
	queries, _ := newQueries(t, svc)
	ctx := context.Background()

	created, err := queries.Create(ctx, CreateInput{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "Is this piece available?",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	record, err := queries.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if svc.getCalls != 0 {
		t.Fatalf("detail read after create must be served from cache, got %d network call(s)", svc.getCalls)
	}
	if record.Name != "Ada" {
		t.Fatalf("detail cache holds %q, want the created record", record.Name)
	}
}

func TestStatsCachedWithinWindow(t *testing.T) {
	svc := &stubService{record: Inquiry{ID: "i1"}}
	queries, _ := newQueries(t, svc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := queries.Stats(ctx); err != nil {
			t.Fatalf("Stats: %v", err)
		}
	}
	if svc.statsCalls != 1 {
		t.Fatalf("expected one stats call within the window, got %d", svc.statsCalls)
	}
}
