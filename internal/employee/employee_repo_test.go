package employee_test

import (
	"context"
	"regexp"
	"testing"

	"go-ems/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}
	return db, mock
}

func TestEmployeeRepository_Delete(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE "employees" SET "deleted_at"=`)

	t.Run("soft deletes", func(t *testing.T) {
		db, mock := newGormMock(t)
		id := uuid.NewString()

		mock.ExpectBegin()
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := employee.NewRepository(db).Delete(context.Background(), id)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row -> record not found", func(t *testing.T) {
		db, mock := newGormMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := employee.NewRepository(db).Delete(context.Background(), uuid.NewString())

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestEmployeeRepository_DepartmentExists(t *testing.T) {
	db, mock := newGormMock(t)
	deptID := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "departments"`)).
		WithArgs(deptID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := employee.NewRepository(db).DepartmentExists(context.Background(), deptID)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
