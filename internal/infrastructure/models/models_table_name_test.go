package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "questions", Question{}.TableName())
	assert.Equal(t, "answers", Answer{}.TableName())
	assert.Equal(t, "comments", Comment{}.TableName())
	assert.Equal(t, "sessions", Session{}.TableName())
	assert.Len(t, All(), 5)
}
