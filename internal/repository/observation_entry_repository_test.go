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

var entryRowColumns = []string{"id", "observation_id", "timestamp", "time_of_day", "behavior", "context", "antecedent", "consequence", "setting", "peers",
	"duration", "intensity", "frequency", "intervention", "notes", "tags", "created_at"}

func TestObservationEntryRepositoryListByObservation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewObservationEntryRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE observation_id = $1 ORDER BY time_of_day ASC, created_at ASC, id ASC")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows(entryRowColumns).
			AddRow("e1", "o1", "0905", "09:05", "On task", "Group instruction", nil, nil, nil, nil, int64(3), nil, nil, nil, nil, `["academic"]`, now))

	entries, err := repo.ListByObservation(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0905", entries[0].Timestamp)
	require.NotNil(t, entries[0].Duration)
	assert.Equal(t, 3, *entries[0].Duration)
	assert.Nil(t, entries[0].Frequency)
	assert.Equal(t, models.TagSet{"academic"}, entries[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationEntryRepositoryListByObservationEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewObservationEntryRepository(db)

	mock.ExpectQuery("FROM observation_entries WHERE observation_id = ").WillReturnRows(sqlmock.NewRows(entryRowColumns))

	entries, err := repo.ListByObservation(context.Background(), "o1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestObservationEntryRepositoryListByObservationsGroups(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewObservationEntryRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE observation_id = ANY($1) ORDER BY observation_id, time_of_day ASC")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(entryRowColumns).
			AddRow("e1", "o1", "0905", "09:05", "On task", "Lecture", nil, nil, nil, nil, nil, nil, nil, nil, nil, "[]", now).
			AddRow("e2", "o1", "0910", "09:10", "Off task", "Lecture", nil, nil, nil, nil, nil, nil, nil, nil, nil, "[]", now).
			AddRow("e3", "o2", "1000", "10:00", "Engaged", "Lab", nil, nil, nil, nil, nil, nil, nil, nil, nil, "[]", now))

	grouped, err := repo.ListByObservations(context.Background(), []string{"o1", "o2"})
	require.NoError(t, err)
	assert.Len(t, grouped["o1"], 2)
	assert.Len(t, grouped["o2"], 1)
	assert.Equal(t, "e2", grouped["o1"][1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationEntryRepositoryCreateDefaultsTags(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewObservationEntryRepository(db)

	mock.ExpectExec("INSERT INTO observation_entries").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.ObservationEntry{ObservationID: "o1", Timestamp: "0905", TimeOfDay: "09:05", Behavior: "On task", Context: "Lecture"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NotNil(t, entry.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}
