package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsSerializationFailure(err))
}

func TestIsSerializationFailure_Postgres(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("commit: %w", &pq.Error{Code: "40P01"})))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
}

func TestUnrelatedErrors(t *testing.T) {
	err := errors.New("connection refused")
	assert.False(t, IsUniqueViolation(err))
	assert.False(t, IsSerializationFailure(err))
	assert.False(t, IsUniqueViolation(nil))
}
