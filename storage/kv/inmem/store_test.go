package inmemkv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/session"
)

func TestStore(t *testing.T) {
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	ctx := context.Background()
	s := NewStore()

	value := []byte("hello")
	require.NoError(t, s.Set(ctx, "a", value, time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("forever"), 0))
	value[0] = 'j' // stored value is a copy

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	_, err = s.Get(ctx, "missing")
	assert.Equal(t, session.ErrNotFound, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "a")
	assert.Equal(t, session.ErrNotFound, err, "expired keys are not returned")
	assert.Equal(t, 1, s.Purge())
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(ctx, "b")
	assert.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "b"))
	_, err = s.Get(ctx, "b")
	assert.Equal(t, session.ErrNotFound, err)
}
