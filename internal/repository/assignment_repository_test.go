package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentListUnclearedJoinsDispatchedParents(t *testing.T) {
	mock, db := setupMockDB(t)
	repo := NewAssignmentRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "company_id", "dispnumdrv", "time_cleared", "dispcleared"}).
		AddRow(id.String(), "acme-towing", int64(42), "1930", false)
	mock.ExpectQuery(`FROM "towdrive" JOIN towmast ON towmast\.dispnum = towdrive\.dispnumdrv ` +
		`AND towmast\.company_id = towdrive\.company_id ` +
		`WHERE towdrive\.dispcleared = \$1 AND towmast\.dispatched = \$2`).
		WithArgs(false, true).
		WillReturnRows(rows)

	assignments, err := repo.ListUncleared(context.Background())

	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, id, assignments[0].ID)
	assert.Equal(t, int64(42), assignments[0].DispatchNum)
	assert.Equal(t, "1930", assignments[0].TimeCleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentFindActiveByDispatchNotFound(t *testing.T) {
	mock, db := setupMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "towdrive" WHERE company_id = \$1 AND dispnumdrv = \$2 AND dispcleared = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assignment, err := repo.FindActiveByDispatch(context.Background(), "acme-towing", 42)

	require.NoError(t, err)
	assert.Nil(t, assignment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentMarkCleared(t *testing.T) {
	mock, db := setupMockDB(t)
	repo := NewAssignmentRepository(db)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "towdrive" SET "dispcleared"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(true, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkCleared(context.Background(), id)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentDispatchNumsByTowTag(t *testing.T) {
	mock, db := setupMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(`SELECT "dispnumdrv" FROM "towdrive" WHERE company_id = \$1 AND tow_tag_num = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"dispnumdrv"}).AddRow(int64(10)).AddRow(int64(20)))

	nums, err := repo.DispatchNumsByTowTag(context.Background(), "acme-towing", "T-900")

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, nums)
	assert.NoError(t, mock.ExpectationsWereMet())
}
