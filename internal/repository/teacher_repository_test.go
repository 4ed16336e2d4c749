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

func TestSchoolRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "district", "address", "principal", "phone", "created_at", "updated_at"}).
		AddRow("s1", "Lincoln Elementary", "North", "1 Main St", "Dr. Park", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schools ORDER BY name ASC")).WillReturnRows(rows)

	schools, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, "Lincoln Elementary", schools[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListBySchool(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "school_id", "department", "grade_level", "created_at", "updated_at"}).
		AddRow("t1", "Maria", "Alvarez", nil, "s1", nil, "3", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE school_id = $1 ORDER BY last_name ASC, first_name ASC")).
		WithArgs("s1").
		WillReturnRows(rows)

	teachers, err := repo.List(context.Background(), models.TeacherFilter{SchoolID: "s1"})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	require.NotNil(t, teachers[0].GradeLevel)
	assert.Equal(t, "3", *teachers[0].GradeLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := &models.Teacher{FirstName: "Maria", LastName: "Alvarez", SchoolID: "s1"}
	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "school_id", "teacher_id", "subject", "grade_level", "room_number", "capacity", "created_at", "updated_at", "school_name", "teacher_first_name", "teacher_last_name"}).
		AddRow("c1", "Room 12", "s1", "t1", "Math", nil, "12", 24, now, now, "Lincoln Elementary", "Maria", "Alvarez")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.school_id = $1 AND c.teacher_id = $2 ORDER BY c.name ASC")).
		WithArgs("s1", "t1").
		WillReturnRows(rows)

	classrooms, err := repo.List(context.Background(), models.ClassroomFilter{SchoolID: "s1", TeacherID: "t1"})
	require.NoError(t, err)
	require.Len(t, classrooms, 1)
	assert.Equal(t, 24, classrooms[0].Capacity)
	assert.Equal(t, "Alvarez", classrooms[0].TeacherLastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
