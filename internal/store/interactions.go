package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const interactionColumns = `id, hcp_id, interaction_type, interaction_date, interaction_time,
	attendees, topics_discussed, materials_shared, samples_distributed,
	hcp_sentiment, outcomes, follow_up_actions, summary, raw_text_input`

func scanInteraction(row pgx.Row) (*Interaction, error) {
	var i Interaction
	err := row.Scan(
		&i.ID, &i.HCPID, &i.InteractionType, &i.InteractionDate, &i.InteractionTime,
		&i.Attendees, &i.TopicsDiscussed, &i.MaterialsShared, &i.SamplesDistributed,
		&i.HCPSentiment, &i.Outcomes, &i.FollowUpActions, &i.Summary, &i.RawTextInput,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateInteraction inserts a new interaction row. The caller must have
// resolved HCPID to an existing HCP.
func (s *Store) CreateInteraction(ctx context.Context, in InteractionCreate) (*Interaction, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO interactions (hcp_id, interaction_type, interaction_date, interaction_time,
			attendees, topics_discussed, materials_shared, samples_distributed,
			hcp_sentiment, outcomes, follow_up_actions, summary, raw_text_input)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+interactionColumns,
		in.HCPID, in.InteractionType, in.InteractionDate, in.InteractionTime,
		in.Attendees, in.TopicsDiscussed, in.MaterialsShared, in.SamplesDistributed,
		in.HCPSentiment, in.Outcomes, in.FollowUpActions, in.Summary, in.RawTextInput,
	)
	i, err := scanInteraction(row)
	if err != nil {
		return nil, fmt.Errorf("insert interaction: %w", err)
	}
	return i, nil
}

// InteractionByID returns the interaction with the given id, or nil if absent.
func (s *Store) InteractionByID(ctx context.Context, id int64) (*Interaction, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+interactionColumns+` FROM interactions WHERE id = $1`, id)
	i, err := scanInteraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select interaction: %w", err)
	}
	return i, nil
}

// ListInteractions returns interactions ordered by id, with offset/limit paging.
func (s *Store) ListInteractions(ctx context.Context, skip, limit int) ([]Interaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+interactionColumns+` FROM interactions
		ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	interactions := []Interaction{}
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, *i)
	}
	return interactions, rows.Err()
}

// MostRecentInteractionByHCPName returns the latest interaction for the named
// HCP, or nil when the HCP or any interaction for it is absent.
func (s *Store) MostRecentInteractionByHCPName(ctx context.Context, hcpName string) (*Interaction, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT i.id, i.hcp_id, i.interaction_type, i.interaction_date, i.interaction_time,
			i.attendees, i.topics_discussed, i.materials_shared, i.samples_distributed,
			i.hcp_sentiment, i.outcomes, i.follow_up_actions, i.summary, i.raw_text_input
		FROM interactions i
		JOIN hcps h ON h.id = i.hcp_id
		WHERE h.name = $1
		ORDER BY i.interaction_date DESC, i.id DESC
		LIMIT 1`, hcpName)
	i, err := scanInteraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select most recent interaction: %w", err)
	}
	return i, nil
}

// UpdateInteraction applies a partial update. Only non-nil fields are written;
// nil means "leave untouched". Returns nil when the id does not exist.
func (s *Store) UpdateInteraction(ctx context.Context, id int64, upd InteractionUpdate) (*Interaction, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.HCPID != nil {
		add("hcp_id", *upd.HCPID)
	}
	if upd.InteractionType != nil {
		add("interaction_type", *upd.InteractionType)
	}
	if upd.InteractionDate != nil {
		add("interaction_date", *upd.InteractionDate)
	}
	if upd.InteractionTime != nil {
		add("interaction_time", *upd.InteractionTime)
	}
	if upd.Attendees != nil {
		add("attendees", *upd.Attendees)
	}
	if upd.TopicsDiscussed != nil {
		add("topics_discussed", *upd.TopicsDiscussed)
	}
	if upd.MaterialsShared != nil {
		add("materials_shared", *upd.MaterialsShared)
	}
	if upd.SamplesDistributed != nil {
		add("samples_distributed", *upd.SamplesDistributed)
	}
	if upd.HCPSentiment != nil {
		add("hcp_sentiment", *upd.HCPSentiment)
	}
	if upd.Outcomes != nil {
		add("outcomes", *upd.Outcomes)
	}
	if upd.FollowUpActions != nil {
		add("follow_up_actions", *upd.FollowUpActions)
	}
	if upd.Summary != nil {
		add("summary", *upd.Summary)
	}
	if upd.RawTextInput != nil {
		add("raw_text_input", *upd.RawTextInput)
	}

	if len(sets) == 0 {
		return s.InteractionByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE interactions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), interactionColumns)

	i, err := scanInteraction(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update interaction: %w", err)
	}
	return i, nil
}
