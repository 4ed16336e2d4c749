package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// ObservationEntryRepository stores the append-only entries of an observation.
type ObservationEntryRepository struct {
	db *sqlx.DB
}

// NewObservationEntryRepository constructs an ObservationEntryRepository.
func NewObservationEntryRepository(db *sqlx.DB) *ObservationEntryRepository {
	return &ObservationEntryRepository{db: db}
}

const entryColumns = `id, observation_id, timestamp, time_of_day, behavior, context, antecedent, consequence, setting, peers,
        duration, intensity, frequency, intervention, notes, tags, created_at`

// entryOrder sorts by time of day and breaks ties by insertion order.
const entryOrder = `time_of_day ASC, created_at ASC, id ASC`

// Create appends an entry.
func (r *ObservationEntryRepository) Create(ctx context.Context, entry *models.ObservationEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	if entry.Tags == nil {
		entry.Tags = models.TagSet{}
	}
	const query = `INSERT INTO observation_entries (id, observation_id, timestamp, time_of_day, behavior, context, antecedent, consequence, setting, peers,
            duration, intensity, frequency, intervention, notes, tags, created_at)
        VALUES (:id, :observation_id, :timestamp, :time_of_day, :behavior, :context, :antecedent, :consequence, :setting, :peers,
            :duration, :intensity, :frequency, :intervention, :notes, :tags, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create observation entry: %w", err)
	}
	return nil
}

// ListByObservation returns the entries of one observation in display order.
func (r *ObservationEntryRepository) ListByObservation(ctx context.Context, observationID string) ([]models.ObservationEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM observation_entries WHERE observation_id = $1 ORDER BY ` + entryOrder
	entries := []models.ObservationEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, observationID); err != nil {
		return nil, fmt.Errorf("list observation entries: %w", err)
	}
	return entries, nil
}

// ListByObservations loads entries for many observations in one query, grouped by observation id.
func (r *ObservationEntryRepository) ListByObservations(ctx context.Context, observationIDs []string) (map[string][]models.ObservationEntry, error) {
	grouped := make(map[string][]models.ObservationEntry, len(observationIDs))
	if len(observationIDs) == 0 {
		return grouped, nil
	}
	query := `SELECT ` + entryColumns + ` FROM observation_entries WHERE observation_id = ANY($1) ORDER BY observation_id, ` + entryOrder
	var entries []models.ObservationEntry
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(observationIDs)); err != nil {
		return nil, fmt.Errorf("list entries for observations: %w", err)
	}
	for _, entry := range entries {
		grouped[entry.ObservationID] = append(grouped[entry.ObservationID], entry)
	}
	return grouped, nil
}
