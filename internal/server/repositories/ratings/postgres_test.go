package ratings

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var ratingColumns = []string{"id", "principal_id", "date", "mood", "notes", "created_at", "updated_at"}

func TestUpsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)

	q := `(?s)^\s*INSERT\s+INTO\s+ratings\s*\(id,\s*principal_id,\s*date,\s*mood,\s*notes,\s*created_at,\s*updated_at\).*ON\s+CONFLICT\s*\(principal_id,\s*date\).*RETURNING\s+id,\s*created_at,\s*updated_at`
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "alice", "2025-03-01", 4, "good day", updated).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("r-1", created, updated))

	got, err := repo.Upsert(context.Background(), &models.Rating{
		PrincipalID: "alice", Date: "2025-03-01", Mood: 4, Notes: "good day", UpdatedAt: updated,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, updated, got.UpdatedAt)
	assert.Equal(t, "good day", got.Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_EmptyNotesStoredAsNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT\s+INTO\s+ratings`).
		WithArgs(sqlmock.AnyArg(), "alice", "2025-03-01", 2, nil, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("r-1", now, now))

	_, err := repo.Upsert(context.Background(), &models.Rating{PrincipalID: "alice", Date: "2025-03-01", Mood: 2, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+ratings`).WillReturnError(errors.New("db down"))

	_, err := repo.Upsert(context.Background(), &models.Rating{PrincipalID: "alice", Date: "2025-03-01", Mood: 2})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)SELECT\s+id,\s*principal_id,\s*date,\s*mood,\s*notes,\s*created_at,\s*updated_at\s+FROM\s+ratings\s+WHERE\s+principal_id\s*=\s*\$1\s+AND\s+date\s*=\s*\$2`
	mock.ExpectQuery(q).
		WithArgs("alice", "2025-03-01").
		WillReturnRows(sqlmock.NewRows(ratingColumns).AddRow("r-1", "alice", "2025-03-01", 3, nil, now, now))

	got, err := repo.Get(context.Background(), "alice", "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Mood)
	assert.Equal(t, "", got.Notes)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+ratings`).WithArgs("ghost", "2025-03-01").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost", "2025-03-01")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListRange(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)FROM\s+ratings\s+WHERE\s+principal_id\s*=\s*\$1\s+AND\s+date\s*>=\s*\$2\s+AND\s+date\s*<=\s*\$3\s+ORDER\s+BY\s+date\s+ASC`
	mock.ExpectQuery(q).
		WithArgs("alice", "2025-03-01", "2025-03-31").
		WillReturnRows(sqlmock.NewRows(ratingColumns).
			AddRow("r-1", "alice", "2025-03-01", 4, "a", now, now).
			AddRow("r-2", "alice", "2025-03-05", 1, nil, now, now))

	got, err := repo.ListRange(context.Background(), "alice", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-01", got[0].Date)
	assert.Equal(t, "a", got[0].Notes)
	assert.Equal(t, "2025-03-05", got[1].Date)
}

func TestListRange_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+ratings`).WillReturnRows(sqlmock.NewRows(ratingColumns))

	got, err := repo.ListRange(context.Background(), "alice", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListRange_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM\s+ratings`).
		WillReturnRows(sqlmock.NewRows(ratingColumns).
			AddRow("r-1", "alice", "2025-03-01", 4, nil, now, now).
			RowError(0, errors.New("broken row")))

	_, err := repo.ListRange(context.Background(), "alice", "2025-03-01", "2025-03-31")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `DELETE\s+FROM\s+ratings\s+WHERE\s+principal_id\s*=\s*\$1\s+AND\s+date\s*=\s*\$2`
	mock.ExpectExec(q).WithArgs("alice", "2025-03-01").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("alice", "2025-03-02").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "alice", "2025-03-01"))

	err := repo.Delete(context.Background(), "alice", "2025-03-02")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
