package repository

import (
	"context"
	"errors"
	"time"

	"admissions_crm_backend/internal/admissions/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is a tenant-scoped admissions CRM record. The score column is a cached
// projection of the scoring inputs; callers needing a fresh value must
// recompute before branching on it.
type Lead struct {
	ID            uuid.UUID
	SchoolID      uuid.UUID
	GuardianName  string
	GuardianPhone string
	ChildName     string
	Stage         string
	Source        *string

	FirstResponseMinutes *int
	TourStatus           domain.TourStatus
	RepliesCount         int
	DistanceConcern      *bool
	FeeConcernLevel      *domain.FeeConcernLevel
	CallConnectedCount   int
	LinkClicks           int

	Score                  int
	LastMeaningfulActionAt *time.Time
	AutomationPaused       bool
	WhatsAppRead           bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

const leadColumns = `id, school_id, guardian_name, guardian_phone, child_name, stage, source,
		first_response_minutes, tour_status, replies_count, distance_concern, fee_concern_level,
		call_connected_count, link_clicks, score, last_meaningful_action_at,
		automation_paused, whatsapp_read, created_at, updated_at`

// leadRowScanner is satisfied by pgx.Rows and pgx.Row so scanLead can be
// shared between single-row and multi-row queries.
type leadRowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s leadRowScanner) (Lead, error) {
	var lead Lead
	var tourStatus string
	var feeConcern *string

	err := s.Scan(
		&lead.ID, &lead.SchoolID, &lead.GuardianName, &lead.GuardianPhone, &lead.ChildName,
		&lead.Stage, &lead.Source,
		&lead.FirstResponseMinutes, &tourStatus, &lead.RepliesCount, &lead.DistanceConcern,
		&feeConcern, &lead.CallConnectedCount, &lead.LinkClicks,
		&lead.Score, &lead.LastMeaningfulActionAt, &lead.AutomationPaused, &lead.WhatsAppRead,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	lead.TourStatus = domain.TourStatus(tourStatus)
	if feeConcern != nil {
		level := domain.FeeConcernLevel(*feeConcern)
		lead.FeeConcernLevel = &level
	}

	return lead, nil
}

func (r *Repository) GetLeadByID(ctx context.Context, id uuid.UUID, schoolID uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND school_id = $2
	`, id, schoolID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (r *Repository) ListLeadsBySchool(ctx context.Context, schoolID uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE school_id = $1
		ORDER BY created_at DESC
	`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

// UpdateLeadScore writes the recomputed score projection. Last write wins by
// design: the score is recomputable from the lead's inputs at any time.
func (r *Repository) UpdateLeadScore(ctx context.Context, id uuid.UUID, schoolID uuid.UUID, score int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET score = $3, updated_at = now()
		WHERE id = $1 AND school_id = $2
	`, id, schoolID, score)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkWhatsAppRead records the simulated delivery receipt. Missing leads are
// not an error: the receipt callback has no ordering guarantee and the lead
// may have been removed by the surrounding application.
func (r *Repository) MarkWhatsAppRead(ctx context.Context, id uuid.UUID, schoolID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET whatsapp_read = true, updated_at = now()
		WHERE id = $1 AND school_id = $2
	`, id, schoolID)
	return err
}

// StageCount is one row of the pipeline dashboard aggregation.
type StageCount struct {
	Stage string
	Count int
}

// PipelineSummary holds dashboard aggregates for a school's admissions funnel.
type PipelineSummary struct {
	TotalLeads   int
	HotLeads     int
	AverageScore float64
	StageCounts  []StageCount
}

func (r *Repository) GetPipelineSummary(ctx context.Context, schoolID uuid.UUID) (PipelineSummary, error) {
	var summary PipelineSummary

	err := r.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE score >= 80), coalesce(avg(score), 0)
		FROM leads WHERE school_id = $1
	`, schoolID).Scan(&summary.TotalLeads, &summary.HotLeads, &summary.AverageScore)
	if err != nil {
		return PipelineSummary{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT stage, count(*)
		FROM leads WHERE school_id = $1
		GROUP BY stage ORDER BY stage
	`, schoolID)
	if err != nil {
		return PipelineSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
			return PipelineSummary{}, err
		}
		summary.StageCounts = append(summary.StageCounts, sc)
	}

	if rows.Err() != nil {
		return PipelineSummary{}, rows.Err()
	}

	return summary, nil
}

// School is the owning tenant of leads. ManagerEmail receives escalation
// alerts when configured.
type School struct {
	ID           uuid.UUID
	Name         string
	ManagerEmail *string
	CreatedAt    time.Time
}

func (r *Repository) GetSchool(ctx context.Context, id uuid.UUID) (School, error) {
	var school School
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, manager_email, created_at FROM schools WHERE id = $1
	`, id).Scan(&school.ID, &school.Name, &school.ManagerEmail, &school.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return School{}, ErrNotFound
	}
	if err != nil {
		return School{}, err
	}
	return school, nil
}

func (r *Repository) ListSchools(ctx context.Context) ([]School, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, manager_email, created_at FROM schools ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schools := make([]School, 0)
	for rows.Next() {
		var school School
		if err := rows.Scan(&school.ID, &school.Name, &school.ManagerEmail, &school.CreatedAt); err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return schools, nil
}
