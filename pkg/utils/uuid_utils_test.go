package utils

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDv7(t *testing.T) {
	first := GenerateUUIDv7()
	second := GenerateUUIDv7()
	assert.Equal(t, uuid.Version(7), first.Version())
	assert.Less(t, first.String(), second.String())
}

func TestGenerateUUIDv7_FallbackBranch(t *testing.T) {
	orig := newUUIDv7
	t.Cleanup(func() { newUUIDv7 = orig })

	newUUIDv7 = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("v7 failed")
	}
	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestParseUUID(t *testing.T) {
	want := uuid.New()
	got, ok := ParseUUID(want.String())
	assert.True(t, ok)
	assert.Equal(t, want, got)

	got, ok = ParseUUID("5")
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, got)
}
