package repository

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// InteractionContentMaxLen is the canonical maximum byte length for
// interaction content. Callers should use TruncateContent when building
// CreateInteractionParams.Content from free text.
const InteractionContentMaxLen = 400

// TruncateContent trims text to at most maxLen bytes, appending "..." on
// overflow. The cut never splits a multibyte rune; guardian and child names
// are not limited to ASCII.
func TruncateContent(text string, maxLen int) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= maxLen {
		return trimmed
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut] + "..."
}

// LeadInteraction is an append-only audit/timeline entry on a lead. The
// repository exposes no update or delete for this table.
type LeadInteraction struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Type      string
	Content   string
	CreatedAt time.Time
}

type CreateInteractionParams struct {
	LeadID  uuid.UUID
	Type    string
	Content string
}

func (r *Repository) CreateInteraction(ctx context.Context, params CreateInteractionParams) (LeadInteraction, error) {
	var interaction LeadInteraction
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_interactions (lead_id, type, content)
		VALUES ($1, $2, $3)
		RETURNING id, lead_id, type, content, created_at
	`, params.LeadID, params.Type, params.Content).Scan(
		&interaction.ID, &interaction.LeadID, &interaction.Type, &interaction.Content, &interaction.CreatedAt,
	)
	if err != nil {
		return LeadInteraction{}, err
	}

	return interaction, nil
}

func (r *Repository) ListInteractions(ctx context.Context, leadID uuid.UUID, schoolID uuid.UUID, limit int) ([]LeadInteraction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.lead_id, i.type, i.content, i.created_at
		FROM lead_interactions i
		JOIN leads l ON l.id = i.lead_id
		WHERE i.lead_id = $1 AND l.school_id = $2
		ORDER BY i.created_at DESC
		LIMIT $3
	`, leadID, schoolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LeadInteraction, 0)
	for rows.Next() {
		var item LeadInteraction
		if err := rows.Scan(&item.ID, &item.LeadID, &item.Type, &item.Content, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
