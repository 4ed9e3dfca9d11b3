package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/pkg/database"
)

// RosterRepository manages the ordered island and party name lists. Rename
// is not exposed; rosters only grow at the tail or lose entries.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new instance of RosterRepository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListIslands returns all islands in roster order.
func (r *RosterRepository) ListIslands(ctx context.Context) ([]models.Island, error) {
	const query = `SELECT id, name, position, created_at FROM islands ORDER BY position ASC, created_at ASC`
	var islands []models.Island
	if err := r.db.SelectContext(ctx, &islands, query); err != nil {
		return nil, database.Classify(fmt.Errorf("list islands: %w", err))
	}
	return islands, nil
}

// CreateIsland appends an island to the roster.
func (r *RosterRepository) CreateIsland(ctx context.Context, island *models.Island) error {
	if island.ID == "" {
		island.ID = uuid.NewString()
	}
	if island.CreatedAt.IsZero() {
		island.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO islands (id, name, position, created_at) VALUES (:id, :name, (SELECT COALESCE(MAX(position), 0) + 1 FROM islands), :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, island); err != nil {
		return database.Classify(fmt.Errorf("create island: %w", err))
	}
	return nil
}

// DeleteIsland removes an island from the roster.
func (r *RosterRepository) DeleteIsland(ctx context.Context, id string) error {
	const query = `DELETE FROM islands WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return database.Classify(fmt.Errorf("delete island: %w", err))
	}
	return nil
}

// IslandNameExists reports whether an island with the given name is present.
func (r *RosterRepository) IslandNameExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT COUNT(*) FROM islands WHERE name = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return false, database.Classify(fmt.Errorf("check island name: %w", err))
	}
	return count > 0, nil
}

// ListParties returns all parties in roster order.
func (r *RosterRepository) ListParties(ctx context.Context) ([]models.Party, error) {
	const query = `SELECT id, name, position, created_at FROM parties ORDER BY position ASC, created_at ASC`
	var parties []models.Party
	if err := r.db.SelectContext(ctx, &parties, query); err != nil {
		return nil, database.Classify(fmt.Errorf("list parties: %w", err))
	}
	return parties, nil
}

// CreateParty appends a party to the roster.
func (r *RosterRepository) CreateParty(ctx context.Context, party *models.Party) error {
	if party.ID == "" {
		party.ID = uuid.NewString()
	}
	if party.CreatedAt.IsZero() {
		party.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO parties (id, name, position, created_at) VALUES (:id, :name, (SELECT COALESCE(MAX(position), 0) + 1 FROM parties), :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, party); err != nil {
		return database.Classify(fmt.Errorf("create party: %w", err))
	}
	return nil
}

// DeleteParty removes a party from the roster.
func (r *RosterRepository) DeleteParty(ctx context.Context, id string) error {
	const query = `DELETE FROM parties WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return database.Classify(fmt.Errorf("delete party: %w", err))
	}
	return nil
}

// PartyNameExists reports whether a party with the given name is present.
func (r *RosterRepository) PartyNameExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT COUNT(*) FROM parties WHERE name = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return false, database.Classify(fmt.Errorf("check party name: %w", err))
	}
	return count > 0, nil
}
