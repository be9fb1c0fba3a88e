package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wolfman30/leadflow/internal/campaigns"
	"github.com/wolfman30/leadflow/internal/leads"
)

// recordingStore wraps the in-memory store, remembering every batch it
// receives and failing the batches a test marks.
type recordingStore struct {
	inner       *leads.InMemoryStore
	batches     [][]leads.Candidate
	failBatches map[int]bool // 1-based submission index
}

func (s *recordingStore) CreateBatch(ctx context.Context, orgID, campaignID string, candidates []leads.Candidate) (*leads.BatchResult, error) {
	s.batches = append(s.batches, candidates)
	if s.failBatches[len(s.batches)] {
		return nil, errors.New("persistence unavailable")
	}
	return s.inner.CreateBatch(ctx, orgID, campaignID, candidates)
}

func (s *recordingStore) ListByCampaign(ctx context.Context, orgID, campaignID string, filter leads.ListFilter) ([]*leads.Lead, error) {
	return s.inner.ListByCampaign(ctx, orgID, campaignID, filter)
}

func newPipeline(t *testing.T) (*Importer, *recordingStore, *campaigns.Campaign, *campaigns.InMemoryRepository) {
	t.Helper()
	repo := campaigns.NewInMemoryRepository()
	c, err := repo.Create(context.Background(), &campaigns.CreateRequest{
		OrgID: "org-1", Name: "Expo", Method: campaigns.MethodCSVImport,
	})
	if err != nil {
		t.Fatal(err)
	}
	store := &recordingStore{
		inner:       leads.NewInMemoryStore(repo),
		failBatches: make(map[int]bool),
	}
	return NewImporter(repo, store, nil, nil), store, c, repo
}

func named(n int) []leads.Candidate {
	out := make([]leads.Candidate, n)
	for i := range out {
		out[i] = leads.Candidate{ClientName: fmt.Sprintf("lead-%d", i)}
	}
	return out
}

func TestRunChunksSequentially(t *testing.T) {
	imp, store, c, _ := newPipeline(t)

	var progress []Progress
	res, err := imp.Run(context.Background(), "org-1", c.ID, named(120), Options{
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.batches) != 3 {
		t.Fatalf("submissions = %d, want 3", len(store.batches))
	}
	for i, want := range []int{50, 50, 20} {
		if got := len(store.batches[i]); got != want {
			t.Errorf("batch %d size = %d, want %d", i+1, got, want)
		}
	}
	if res.Created != 120 || res.Errors != 0 {
		t.Errorf("result = %+v, want 120 created", res)
	}

	if len(progress) != 3 {
		t.Fatalf("progress reports = %d, want 3", len(progress))
	}
	last := 0
	for _, p := range progress {
		if p.Processed <= last {
			t.Errorf("processed did not advance: %+v", p)
		}
		last = p.Processed
	}
	if final := progress[len(progress)-1]; final.Processed != 120 || final.Total != 120 {
		t.Errorf("final progress = %+v, want processed=total=120", final)
	}
	if res.Campaign.Stats.Total != 120 {
		t.Errorf("refreshed stats total = %d, want 120", res.Campaign.Stats.Total)
	}
}

func TestRunDropsUnidentifiedBeforeSubmission(t *testing.T) {
	imp, store, c, _ := newPipeline(t)

	res, err := imp.Run(context.Background(), "org-1", c.ID, []leads.Candidate{
		{ClientName: "Ada"},
		{CompanyName: "Acme"}, // no name, no email: never submitted
		{Email: "grace@example.com"},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Skipped != 1 || res.Created != 2 || res.Errors != 0 {
		t.Errorf("result = %+v, want 2 created and 1 skipped", res)
	}
	for _, batch := range store.batches {
		for _, cand := range batch {
			if cand.CompanyName == "Acme" {
				t.Error("unidentified candidate reached the store")
			}
		}
	}
}

func TestRunSecondBatchFailureIsIsolated(t *testing.T) {
	imp, store, c, _ := newPipeline(t)
	store.failBatches[2] = true

	res, err := imp.Run(context.Background(), "org-1", c.ID, named(120), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.batches) != 3 {
		t.Fatalf("submissions = %d, want 3 (third batch must still run)", len(store.batches))
	}
	if res.Errors != 50 {
		t.Errorf("Errors = %d, want the failed batch's 50", res.Errors)
	}
	if res.Created != 70 {
		t.Errorf("Created = %d, want 70", res.Created)
	}
	if res.Campaign.Stats.Total != 70 {
		t.Errorf("stats total = %d, want 70", res.Campaign.Stats.Total)
	}
}

func TestRunRejectsNonIngestibleBeforeProcessing(t *testing.T) {
	imp, store, c, repo := newPipeline(t)
	if _, err := repo.SetStatus(context.Background(), "org-1", c.ID, campaigns.EventArchive); err != nil {
		t.Fatal(err)
	}

	_, err := imp.Run(context.Background(), "org-1", c.ID, named(10), Options{})
	if !errors.Is(err, campaigns.ErrNotIngestible) {
		t.Fatalf("expected ErrNotIngestible, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Errorf("submissions = %d, want 0", len(store.batches))
	}
}

func TestRunUnknownCampaign(t *testing.T) {
	imp, _, _, _ := newPipeline(t)
	_, err := imp.Run(context.Background(), "org-1", "nope", named(1), Options{})
	if !errors.Is(err, campaigns.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunStopsBetweenChunksOnCancel(t *testing.T) {
	imp, store, c, _ := newPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	res, err := imp.Run(ctx, "org-1", c.ID, named(100), Options{
		OnProgress: func(Progress) { cancel() },
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(store.batches) != 1 {
		t.Errorf("submissions = %d, want 1 (in-flight chunk finishes, next never starts)", len(store.batches))
	}
	if res == nil || res.Created != 50 {
		t.Errorf("partial result = %+v, want 50 created", res)
	}
}
