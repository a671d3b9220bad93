package rdb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestMapDBError(t *testing.T) {
	plain := errors.New("connection reset")
	tests := []struct {
		name string
		err  error
		want pkg.Kind
	}{
		{"mysql duplicate", &mysqldrv.MySQLError{Number: 1062}, pkg.KindConflict},
		{"mysql referenced", &mysqldrv.MySQLError{Number: 1451}, pkg.KindConflict},
		{"mysql missing parent", fmt.Errorf("insert: %w", &mysqldrv.MySQLError{Number: 1452}), pkg.KindConflict},
		{"mysql other", &mysqldrv.MySQLError{Number: 1045}, pkg.KindInternal},
		{"pg unique", &pgconn.PgError{Code: "23505"}, pkg.KindConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, pkg.KindConflict},
		{"pg other", &pgconn.PgError{Code: "42P01"}, pkg.KindInternal},
		{"plain", plain, pkg.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkg.KindOf(mapDBError(tt.err)))
		})
	}
	assert.NoError(t, mapDBError(nil))
	assert.Same(t, plain, mapDBError(plain))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("sqlite", "file::memory:")
	assert.Error(t, err)
}

func TestDivisionDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &DivisionRepository{DB: db}
	query := regexp.QuoteMeta("DELETE FROM `divisions` WHERE id = ?")

	mock.ExpectExec(query).WithArgs("d1").WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := repo.Delete(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec(query).WithArgs("d2").WillReturnError(&mysqldrv.MySQLError{Number: 1451, Message: "a foreign key constraint fails"})
	_, err = repo.Delete(context.Background(), "d2")
	assert.Equal(t, pkg.KindConflict, pkg.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDivisionCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &DivisionRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `divisions`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityOutboxQueries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &ActivityRepository{DB: db}
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `activity_logs` WHERE published_at IS NULL AND retry < ? ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "event", "subject_type", "subject_id", "retry"}).
			AddRow(1, "New employee Ana joined", model.EventCreated, "employee", "e1", 0))
	rows, err := repo.ListUnpublished(ctx, 200, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "e1", rows[0].SubjectID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `activity_logs` SET `retry`=retry + 1 WHERE id = ?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RetryUpdate(ctx, 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}
