package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

var studentRowColumns = []string{"id", "first_name", "last_name", "date_of_birth", "grade", "school_id", "primary_idea_category_id", "secondary_idea_category_id",
	"iep_date", "case_manager", "accommodations", "is_active", "created_at", "updated_at"}

func studentListColumns() []string {
	columns := append([]string{}, studentRowColumns...)
	return append(columns, "school_name", "primary_idea_category_code", "primary_idea_category_name", "secondary_idea_category_code", "secondary_idea_category_name")
}

func TestStudentRepositoryListActiveOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(studentListColumns()).
		AddRow("st1", "Jamie", "Rivera", now, "3", "s1", "idea1", nil, nil, nil, nil, true, now, now, "Lincoln Elementary", "AUT", "Autism", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND s.is_active = TRUE ORDER BY s.last_name ASC, s.first_name ASC")).
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Lincoln Elementary", students[0].SchoolName)
	require.NotNil(t, students[0].PrimaryIdeaCategoryID)
	assert.Equal(t, "idea1", *students[0].PrimaryIdeaCategoryID)
	require.NotNil(t, students[0].PrimaryIdeaCategoryCode)
	assert.Equal(t, "AUT", *students[0].PrimaryIdeaCategoryCode)
	assert.Nil(t, students[0].SecondaryIdeaCategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListIncludeInactiveBySchool(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND s.school_id = $1 ORDER BY")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(studentListColumns()))

	students, err := repo.List(context.Background(), models.StudentFilter{SchoolID: "s1", IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryRecentObservations(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.student_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "date", "start_time", "end_time", "setting", "status", "created_at"}).
			AddRow("o1", "st1", now, "09:00", "09:30", "Gen ed", "completed", now))

	stubs, err := repo.RecentObservations(context.Background(), []string{"st1"}, 5)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.Equal(t, "st1", stubs[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryRecentObservationsEmptyInput(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	stubs, err := repo.RecentObservations(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Nil(t, stubs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET is_active = FALSE, updated_at = $2 WHERE id = $1")).
		WithArgs("st1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "st1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateLeavesActivationAlone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`accommodations = \?, updated_at = \?\s+WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{ID: "st1", FirstName: "Jamie", LastName: "Rivera", DateOfBirth: time.Now(), Grade: "4", SchoolID: "s1", IsActive: true}
	require.NoError(t, repo.Update(context.Background(), student))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{FirstName: "Jamie", LastName: "Rivera", DateOfBirth: time.Now(), Grade: "3", SchoolID: "s1", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
