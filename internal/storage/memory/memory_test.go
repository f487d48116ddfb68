package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage"
)

func newAccount(name, username string) models.Account {
	return models.Account{
		Name:         name,
		Username:     username,
		Password:     "p",
		Token:        "token-" + username,
		Status:       models.StatusOnline,
		CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStorage_SaveAssignsIncreasingIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Save(ctx, newAccount("A", "a1"))
	require.NoError(t, err)
	second, err := s.Save(ctx, newAccount("B", "b1"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].Username)
	assert.Equal(t, "b1", all[1].Username)
}

func TestStorage_FindMissingReturnsNil(t *testing.T) {
	s := New()
	ctx := context.Background()

	byID, err := s.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, byID)

	byUsername, err := s.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, byUsername)

	byName, err := s.FindByName(ctx, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, byName)
}

func TestStorage_SaveUpdatesExisting(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc, err := s.Save(ctx, newAccount("A", "a1"))
	require.NoError(t, err)

	birthday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	acc.Username = "a2"
	acc.Birthday = &birthday
	updated, err := s.Save(ctx, acc)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, updated.ID)

	got, err := s.FindByUsername(ctx, "a2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, birthday, *got.Birthday)

	old, err := s.FindByUsername(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestStorage_SaveUnknownID(t *testing.T) {
	s := New()
	acc := newAccount("A", "a1")
	acc.ID = 10

	_, err := s.Save(context.Background(), acc)
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestStorage_SaveDuplicates(t *testing.T) {
	tests := []struct {
		name      string
		second    models.Account
		wantField string
	}{
		{
			name:      "duplicate username",
			second:    newAccount("B", "a1"),
			wantField: storage.FieldUsername,
		},
		{
			name:      "duplicate name",
			second:    newAccount("A", "b1"),
			wantField: storage.FieldName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			ctx := context.Background()

			_, err := s.Save(ctx, newAccount("A", "a1"))
			require.NoError(t, err)

			_, err = s.Save(ctx, tt.second)
			require.Error(t, err)
			assert.ErrorIs(t, err, storage.ErrAccountExists)

			var dup *storage.DuplicateError
			require.True(t, errors.As(err, &dup))
			assert.Equal(t, tt.wantField, dup.Field)
		})
	}
}

func TestStorage_ReturnedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	birthday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	acc := newAccount("A", "a1")
	acc.Birthday = &birthday
	saved, err := s.Save(ctx, acc)
	require.NoError(t, err)

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	got.Username = "mutated"
	*got.Birthday = time.Time{}

	again, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1", again.Username)
	assert.Equal(t, birthday, *again.Birthday)
}

func TestStorage_DeleteAllDoesNotReuseIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Save(ctx, newAccount("A", "a1"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteAll(ctx))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	second, err := s.Save(ctx, newAccount("A", "a1"))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestStorage_ConcurrentDuplicateInserts(t *testing.T) {
	s := New()
	ctx := context.Background()

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, newAccount("A", "a1"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if errors.Is(err, storage.ErrAccountExists) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestStorage_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, newAccount("A", "a1"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
