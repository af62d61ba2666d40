package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := Session{UserID: uuid.New(), Email: "demo@dhukuti.app", Role: RoleUser, IsDemo: true}
	got, ok := FromContext(NewContext(context.Background(), s))

	assert.True(t, ok)
	assert.Equal(t, s, got)
	assert.True(t, got.Authenticated())
	assert.False(t, got.IsAdmin())
}
