package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/collabsphere/internal/models"
)

// IdentityStore keeps identity slots in a key/value table:
//
//	CREATE TABLE identity_slots (
//	    key        text PRIMARY KEY,
//	    id         text NOT NULL,
//	    name       text NOT NULL,
//	    email      text NOT NULL,
//	    role       text NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
//
// db.EnsureSchema creates it at startup.
type IdentityStore struct {
	pool *pgxpool.Pool
}

func NewIdentityStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

func (s *IdentityStore) Load(ctx context.Context, key string) (*models.Identity, error) {
	query := `
		SELECT id, name, email, role
		FROM identity_slots
		WHERE key = $1`

	var u models.Identity
	err := s.pool.QueryRow(ctx, query, key).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	return &u, nil
}

// Save upserts: a second login on the same session replaces the record.
func (s *IdentityStore) Save(ctx context.Context, key string, identity *models.Identity) error {
	query := `
		INSERT INTO identity_slots (key, id, name, email, role, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (key) DO UPDATE
		SET id = EXCLUDED.id, name = EXCLUDED.name, email = EXCLUDED.email,
		    role = EXCLUDED.role, updated_at = now()`

	_, err := s.pool.Exec(ctx, query, key, identity.ID, identity.Name, identity.Email, string(identity.Role))
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Clear(ctx context.Context, key string) error {
	// DELETE of a missing row affects zero rows and is not an error.
	_, err := s.pool.Exec(ctx, `DELETE FROM identity_slots WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
