package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/pkg/database"
)

const voterColumns = "id, id_card, full_name, gender, address, island, phone, has_voted, party, sheema, sadiq, communicated, notes, created_at, updated_at"

// VoterRepository provides database access to the voter registry.
type VoterRepository struct {
	db *sqlx.DB
}

// NewVoterRepository creates a new instance of VoterRepository.
func NewVoterRepository(db *sqlx.DB) *VoterRepository {
	return &VoterRepository{db: db}
}

// FindByID returns a voter by identifier.
func (r *VoterRepository) FindByID(ctx context.Context, id string) (*models.Voter, error) {
	query := fmt.Sprintf("SELECT %s FROM voters WHERE id = $1 LIMIT 1", voterColumns)
	var voter models.Voter
	if err := r.db.GetContext(ctx, &voter, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, database.Classify(fmt.Errorf("find voter by id: %w", err))
	}
	return &voter, nil
}

// FindByIDCard returns a voter by id-card number.
func (r *VoterRepository) FindByIDCard(ctx context.Context, idCard string) (*models.Voter, error) {
	query := fmt.Sprintf("SELECT %s FROM voters WHERE id_card = $1 LIMIT 1", voterColumns)
	var voter models.Voter
	if err := r.db.GetContext(ctx, &voter, query, idCard); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, database.Classify(fmt.Errorf("find voter by id card: %w", err))
	}
	return &voter, nil
}

// List returns voters matching the filter. Ordering is left to the caller;
// the service applies the presentation sort.
func (r *VoterRepository) List(ctx context.Context, filter models.VoterFilter) ([]models.Voter, error) {
	baseQuery := fmt.Sprintf("SELECT %s FROM voters WHERE 1=1", voterColumns)
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(id_card) LIKE $%d OR LOWER(address) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Island != "" {
		conditions = append(conditions, fmt.Sprintf("island = $%d", len(args)+1))
		args = append(args, filter.Island)
	}
	if filter.Party != "" {
		if filter.Party == models.IndependentParty {
			conditions = append(conditions, fmt.Sprintf("(party IS NULL OR party = '' OR party = $%d)", len(args)+1))
		} else {
			conditions = append(conditions, fmt.Sprintf("party = $%d", len(args)+1))
		}
		args = append(args, filter.Party)
	}
	if filter.HasVoted != nil {
		conditions = append(conditions, fmt.Sprintf("has_voted = $%d", len(args)+1))
		args = append(args, *filter.HasVoted)
	}
	if filter.Sheema != nil {
		conditions = append(conditions, fmt.Sprintf("sheema = $%d", len(args)+1))
		args = append(args, *filter.Sheema)
	}
	if filter.Sadiq != nil {
		conditions = append(conditions, fmt.Sprintf("sadiq = $%d", len(args)+1))
		args = append(args, *filter.Sadiq)
	}
	if filter.Communicated != nil {
		conditions = append(conditions, fmt.Sprintf("communicated = $%d", len(args)+1))
		args = append(args, *filter.Communicated)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at ASC"

	var voters []models.Voter
	if err := r.db.SelectContext(ctx, &voters, baseQuery, args...); err != nil {
		return nil, database.Classify(fmt.Errorf("list voters: %w", err))
	}
	return voters, nil
}

// Create inserts a new voter record.
func (r *VoterRepository) Create(ctx context.Context, voter *models.Voter) error {
	if voter.ID == "" {
		voter.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if voter.CreatedAt.IsZero() {
		voter.CreatedAt = now
	}
	voter.UpdatedAt = now

	const query = `INSERT INTO voters (id, id_card, full_name, gender, address, island, phone, has_voted, party, sheema, sadiq, communicated, notes, created_at, updated_at)
		VALUES (:id, :id_card, :full_name, :gender, :address, :island, :phone, :has_voted, :party, :sheema, :sadiq, :communicated, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, voter); err != nil {
		return database.Classify(fmt.Errorf("create voter: %w", err))
	}
	return nil
}

// Update overwrites the mutable fields of a voter record.
func (r *VoterRepository) Update(ctx context.Context, voter *models.Voter) error {
	voter.UpdatedAt = time.Now().UTC()
	const query = `UPDATE voters SET id_card = :id_card, full_name = :full_name, gender = :gender, address = :address, island = :island, phone = :phone, has_voted = :has_voted, party = :party, sheema = :sheema, sadiq = :sadiq, communicated = :communicated, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, voter); err != nil {
		return database.Classify(fmt.Errorf("update voter: %w", err))
	}
	return nil
}

// SetVoteStatus flips only the has_voted flag.
func (r *VoterRepository) SetVoteStatus(ctx context.Context, id string, hasVoted bool) error {
	const query = `UPDATE voters SET has_voted = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hasVoted, time.Now().UTC()); err != nil {
		return database.Classify(fmt.Errorf("set vote status: %w", err))
	}
	return nil
}

// Delete removes a voter record.
func (r *VoterRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM voters WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return database.Classify(fmt.Errorf("delete voter: %w", err))
	}
	return nil
}
