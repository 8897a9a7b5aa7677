package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FollowUp is a scheduled task tied to a lead. Overdue is a read-time
// predicate (status=PENDING and scheduled_at in the past), not a stored
// transition; escalated_at records that the overdue alert already fired.
type FollowUp struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Type        string
	ScheduledAt time.Time
	Status      string
	Notes       string
	EscalatedAt *time.Time
	CreatedAt   time.Time
}

type CreateFollowUpParams struct {
	LeadID      uuid.UUID
	Type        string
	ScheduledAt time.Time
	Notes       string
}

func (r *Repository) CreateFollowUp(ctx context.Context, params CreateFollowUpParams) (FollowUp, error) {
	var fu FollowUp
	err := r.pool.QueryRow(ctx, `
		INSERT INTO follow_ups (lead_id, type, scheduled_at, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, type, scheduled_at, status, notes, escalated_at, created_at
	`, params.LeadID, params.Type, params.ScheduledAt, params.Notes).Scan(
		&fu.ID, &fu.LeadID, &fu.Type, &fu.ScheduledAt, &fu.Status, &fu.Notes, &fu.EscalatedAt, &fu.CreatedAt,
	)
	if err != nil {
		return FollowUp{}, err
	}

	return fu, nil
}

// OverdueFollowUp joins the follow-up with the lead fields the escalation
// sweep needs for its alert message.
type OverdueFollowUp struct {
	FollowUp
	SchoolID     uuid.UUID
	GuardianName string
	ChildName    string
}

// ListOverduePendingFollowUps returns PENDING follow-ups past their scheduled
// time for leads of the given school, excluding ones already escalated.
func (r *Repository) ListOverduePendingFollowUps(ctx context.Context, schoolID uuid.UUID, now time.Time) ([]OverdueFollowUp, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.lead_id, f.type, f.scheduled_at, f.status, f.notes, f.escalated_at, f.created_at,
			l.school_id, l.guardian_name, l.child_name
		FROM follow_ups f
		JOIN leads l ON l.id = f.lead_id
		WHERE l.school_id = $1
			AND f.status = 'PENDING'
			AND f.scheduled_at < $2
			AND f.escalated_at IS NULL
		ORDER BY f.scheduled_at ASC
	`, schoolID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OverdueFollowUp, 0)
	for rows.Next() {
		var item OverdueFollowUp
		if err := rows.Scan(
			&item.ID, &item.LeadID, &item.Type, &item.ScheduledAt, &item.Status, &item.Notes,
			&item.EscalatedAt, &item.CreatedAt,
			&item.SchoolID, &item.GuardianName, &item.ChildName,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// MarkFollowUpEscalated stamps escalated_at so repeated sweeps do not
// re-alert on the same task.
func (r *Repository) MarkFollowUpEscalated(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE follow_ups SET escalated_at = $2 WHERE id = $1 AND escalated_at IS NULL
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
