package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateHCP is returned when an HCP name is already registered.
var ErrDuplicateHCP = errors.New("hcp name already registered")

// CreateHCP inserts a new HCP. The name must be unique.
func (s *Store) CreateHCP(ctx context.Context, in HCPCreate) (*HCP, error) {
	var h HCP
	err := s.pool.QueryRow(ctx, `
		INSERT INTO hcps (name, specialty, contact_info)
		VALUES ($1, $2, $3)
		RETURNING id, name, specialty, contact_info`,
		in.Name, in.Specialty, in.ContactInfo,
	).Scan(&h.ID, &h.Name, &h.Specialty, &h.ContactInfo)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateHCP
		}
		return nil, fmt.Errorf("insert hcp: %w", err)
	}
	return &h, nil
}

// HCPByID returns the HCP with the given id, or nil if absent.
func (s *Store) HCPByID(ctx context.Context, id int64) (*HCP, error) {
	var h HCP
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, specialty, contact_info FROM hcps WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.Specialty, &h.ContactInfo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select hcp: %w", err)
	}
	return &h, nil
}

// HCPByName returns the HCP with the given name (case-sensitive), or nil if absent.
func (s *Store) HCPByName(ctx context.Context, name string) (*HCP, error) {
	var h HCP
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, specialty, contact_info FROM hcps WHERE name = $1`, name,
	).Scan(&h.ID, &h.Name, &h.Specialty, &h.ContactInfo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select hcp by name: %w", err)
	}
	return &h, nil
}

// ListHCPs returns HCPs ordered by id, with offset/limit paging.
func (s *Store) ListHCPs(ctx context.Context, skip, limit int) ([]HCP, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, specialty, contact_info FROM hcps
		ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list hcps: %w", err)
	}
	defer rows.Close()

	hcps := []HCP{}
	for rows.Next() {
		var h HCP
		if err := rows.Scan(&h.ID, &h.Name, &h.Specialty, &h.ContactInfo); err != nil {
			return nil, fmt.Errorf("scan hcp: %w", err)
		}
		hcps = append(hcps, h)
	}
	return hcps, rows.Err()
}
