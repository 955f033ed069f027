package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsExclusionViolation(t *testing.T) {
	t.Parallel()

	exclusion := &pgconn.PgError{Code: "23P01", ConstraintName: "availability_windows_no_overlap"}
	unique := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsExclusionViolation(exclusion))
	assert.True(t, IsExclusionViolation(fmt.Errorf("create failed: %w", exclusion)))
	assert.False(t, IsExclusionViolation(unique))
	assert.False(t, IsExclusionViolation(errors.New("connection refused")))
	assert.False(t, IsExclusionViolation(nil))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	// Windows must migrate after listings so the FK target exists.
	assert.Len(t, Registry(), 4)
}
