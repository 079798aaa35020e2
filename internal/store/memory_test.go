package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
)

func newState() game.GameState {
	return game.GameState{Mode: game.ModePlayerTurn, Player: &game.Field{Grid: game.NewGrid(2), Ships: []game.Ship{}}}
}

func TestMemory_SaveGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	s := NewSession("user-1", "", newState())
	require.NotEmpty(t, s.ID)
	require.NotEmpty(t, s.RoundID)
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, got.State.Same(s.State))
}

func TestMemory_GetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_SaveWithoutID(t *testing.T) {
	assert.Error(t, NewMemoryStore().Save(context.Background(), Session{}))
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := NewSession("", "anon", newState())
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Update(ctx, s.ID, func(s *Session) error {
		s.Shots = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Shots)

	stored, _ := st.Get(ctx, s.ID)
	assert.Equal(t, 3, stored.Shots)
}

func TestMemory_UpdateErrorKeepsOld(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := NewSession("", "anon", newState())
	require.NoError(t, st.Save(ctx, s))

	boom := errors.New("boom")
	got, err := st.Update(ctx, s.ID, func(s *Session) error {
		s.Shots = 42
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, got.Shots)

	stored, _ := st.Get(ctx, s.ID)
	assert.Equal(t, 0, stored.Shots)
}

func TestMemory_UpdateMissing(t *testing.T) {
	_, err := NewMemoryStore().Update(context.Background(), "x", func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateIsSerialised(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := NewSession("", "anon", newState())
	require.NoError(t, st.Save(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Update(ctx, s.ID, func(s *Session) error {
				s.Shots++
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := st.Get(ctx, s.ID)
	assert.Equal(t, 50, got.Shots)
}

func TestSession_NewRound(t *testing.T) {
	s := NewSession("", "anon", newState())
	s.Shots = 9
	round := s.RoundID

	next := newState()
	s.NewRound(next)

	assert.NotEqual(t, round, s.RoundID)
	assert.Equal(t, 0, s.Shots)
	assert.True(t, s.State.Same(next))
}
