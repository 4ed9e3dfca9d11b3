package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
)

func TestListIslandsOrdered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "position", "created_at"}).
		AddRow("i1", "Hulhumale", 1, now).
		AddRow("i2", "Villimale", 2, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, position, created_at FROM islands ORDER BY position ASC, created_at ASC")).
		WillReturnRows(rows)

	islands, err := repo.ListIslands(context.Background())
	require.NoError(t, err)
	require.Len(t, islands, 2)
	assert.Equal(t, "Hulhumale", islands[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePartyAppendsPosition(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO parties").WillReturnResult(sqlmock.NewResult(1, 1))

	party := &models.Party{Name: "MDP"}
	require.NoError(t, repo.CreateParty(context.Background(), party))
	assert.NotEmpty(t, party.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIslandNameExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM islands WHERE name = $1")).
		WithArgs("Hulhumale").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.IslandNameExists(context.Background(), "Hulhumale")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
