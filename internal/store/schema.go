package store

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS hcps (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	specialty TEXT NOT NULL DEFAULT '',
	contact_info TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interactions (
	id BIGSERIAL PRIMARY KEY,
	hcp_id BIGINT NOT NULL REFERENCES hcps(id),
	interaction_type TEXT NOT NULL DEFAULT 'Meeting',
	interaction_date DATE NOT NULL,
	interaction_time TEXT NOT NULL DEFAULT '',
	attendees TEXT NOT NULL DEFAULT '',
	topics_discussed TEXT NOT NULL DEFAULT '',
	materials_shared TEXT NOT NULL DEFAULT '',
	samples_distributed TEXT NOT NULL DEFAULT '',
	hcp_sentiment TEXT NOT NULL DEFAULT 'Neutral',
	outcomes TEXT NOT NULL DEFAULT '',
	follow_up_actions TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	raw_text_input TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_interactions_hcp_id ON interactions (hcp_id);
CREATE INDEX IF NOT EXISTS idx_interactions_date ON interactions (interaction_date DESC);
`

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
