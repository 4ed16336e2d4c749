package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/idea-observation-api/pkg/config"
)

func TestViolationClassification(t *testing.T) {
	fk := fmt.Errorf("create observation: %w", &pq.Error{Code: "23503", Constraint: "observations_student_id_fkey"})
	unique := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))
	assert.Equal(t, "observations_student_id_fkey", Constraint(fk))

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
	assert.Empty(t, Constraint(errors.New("boom")))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "obs", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=obs sslmode=disable", dsn)
}
