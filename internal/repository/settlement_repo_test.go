package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockRepo(t *testing.T) (*SettlementRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return NewSettlementRepository(gdb), mock
}

var (
	recID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	recID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	recID3 = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

func recordRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "uploader", "kills", "money", "created_at"})
	for _, id := range ids {
		rows.AddRow(id.String(), "張三", 1, int64(100000), time.Now())
	}
	return rows
}

func TestListFirstPage(t *testing.T) {
	repo, mock := mockRepo(t)

	// Order and cursor must use the same column, so a page boundary can
	// neither skip nor repeat records.
	mock.ExpectQuery(`SELECT \* FROM "settlement_records" ORDER BY id ASC LIMIT`).
		WillReturnRows(recordRows(recID1, recID2, recID3))

	recs, nextCursor, hasMore, err := repo.List(context.Background(), "", "", 2)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, recID1, recs[0].ID)
	assert.Equal(t, recID2, recs[1].ID)
	assert.True(t, hasMore)
	assert.Equal(t, recID2.String(), nextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSecondPageFiltersOnCursorColumn(t *testing.T) {
	repo, mock := mockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "settlement_records" WHERE id > \$1 ORDER BY id ASC LIMIT`).
		WillReturnRows(recordRows(recID3))

	recs, nextCursor, hasMore, err := repo.List(context.Background(), "", recID2.String(), 2)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, recID3, recs[0].ID)
	assert.False(t, hasMore)
	assert.Empty(t, nextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUploaderFilter(t *testing.T) {
	repo, mock := mockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "settlement_records" WHERE uploader = \$1 ORDER BY id ASC LIMIT`).
		WillReturnRows(recordRows(recID1))

	recs, _, _, err := repo.List(context.Background(), "張三", "", 50)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryError(t *testing.T) {
	repo, mock := mockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "settlement_records"`).
		WillReturnError(errors.New("connection reset"))

	_, _, _, err := repo.List(context.Background(), "", "", 50)
	assert.Error(t, err)
}
