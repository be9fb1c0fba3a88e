package campaigns

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var campaignCols = []string{
	"id", "org_id", "name", "method", "lead_category", "tags", "source_notes",
	"expected_count", "priority", "status", "assignment_rule", "external_event_ref",
	"assignees", "stats", "created_at", "updated_at",
}

func campaignRow(mock pgxmock.PgxPoolIface, id, org string, status Status) *pgxmock.Rows {
	now := time.Now().UTC()
	return mock.NewRows(campaignCols).AddRow(
		id, org, "Trade Show Q3", "csv_import", "exhibitor", []string{"expo"},
		"", 100, "medium", string(status), "manual", nil,
		[]byte(`[{"user_ref":"user-0","role":"owner","percentage":100}]`),
		[]byte(`{"total":3,"new":1,"cold":0,"warm":2,"qualified":0,"converted":0,"lost":0}`),
		now, now,
	)
}

func TestPostgresGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM campaigns WHERE id = \$1 AND org_id = \$2`).
		WithArgs("camp-1", "org-1").
		WillReturnRows(campaignRow(mock, "camp-1", "org-1", StatusActive))

	repo := NewPostgresRepositoryWithDB(mock)
	c, err := repo.GetByID(context.Background(), "org-1", "camp-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if c.Name != "Trade Show Q3" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.Status != StatusActive {
		t.Errorf("Status = %q", c.Status)
	}
	if c.Stats.Total != 3 || c.Stats.Warm != 2 {
		t.Errorf("Stats = %+v", c.Stats)
	}
	if len(c.Assignees) != 1 || c.Assignees[0].UserRef != "user-0" {
		t.Errorf("Assignees = %+v", c.Assignees)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM campaigns WHERE id = \$1 AND org_id = \$2`).
		WithArgs("ghost", "org-1").
		WillReturnRows(mock.NewRows(campaignCols))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), "org-1", "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresSetStatusGatesTransition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	// Draft campaign fetched, pause is illegal, so no UPDATE is issued.
	mock.ExpectQuery(`SELECT (.+) FROM campaigns WHERE id = \$1 AND org_id = \$2`).
		WithArgs("camp-1", "org-1").
		WillReturnRows(campaignRow(mock, "camp-1", "org-1", StatusDraft))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.SetStatus(context.Background(), "org-1", "camp-1", EventPause)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresOverview(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\),`).
		WithArgs("org-1").
		WillReturnRows(mock.NewRows([]string{"total", "active", "draft", "total_leads"}).
			AddRow(5, 2, 1, 340))

	repo := NewPostgresRepositoryWithDB(mock)
	ov, err := repo.Overview(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if ov.Total != 5 || ov.Active != 2 || ov.Draft != 1 || ov.TotalLeads != 340 {
		t.Errorf("unexpected overview %+v", ov)
	}
}

func TestPostgresDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM campaigns WHERE id = \$1 AND org_id = \$2`).
		WithArgs("ghost", "org-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepositoryWithDB(mock)
	if err := repo.Delete(context.Background(), "org-1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
