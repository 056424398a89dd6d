package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateGetTouch(t *testing.T) {
	m := NewManager(time.Minute, 0, zap.NewNop())
	s, err := m.Create("p1")
	require.NoError(t, err)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "p1", got.PlayerID)

	assert.True(t, m.Touch(s.ID))
	assert.False(t, m.Touch("missing"))

	assert.True(t, m.Bind(s.ID, "g1"))
	got, _ = m.Get(s.ID)
	assert.Equal(t, "g1", got.GameID)
}

func TestExpiredSessionIsInvisible(t *testing.T) {
	m := NewManager(10*time.Millisecond, 0, zap.NewNop())
	s, err := m.Create("p1")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.False(t, m.Touch(s.ID))

	m.reap()
	assert.Equal(t, 0, m.Count())
}

func TestSessionLimit(t *testing.T) {
	m := NewManager(time.Minute, 1, zap.NewNop())
	_, err := m.Create("p1")
	require.NoError(t, err)
	_, err = m.Create("p2")
	assert.Error(t, err)
}

func TestCloseAll(t *testing.T) {
	m := NewManager(time.Minute, 0, zap.NewNop())
	for i := 0; i < 3; i++ {
		_, err := m.Create("p")
		require.NoError(t, err)
	}
	require.Equal(t, 3, m.Count())
	m.CloseAll()
	assert.Equal(t, 0, m.Count())
}
