package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pidstore/internal/sentinel"
	"pidstore/pkg/domain"
	"pidstore/pkg/testutil"
)

func TestInMemoryCreate_Success(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	person := testutil.NewPerson().Build()
	require.NoError(t, store.Create(ctx, person))

	found, err := store.FindByID(ctx, person.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, *person, *found)
}

func TestInMemoryCreate_DuplicateReturnsAlreadyUsed(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testutil.NewPerson().Build()))

	err := store.Create(ctx, testutil.NewPerson().WithName("Somebody Else").Build())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

	found, err := store.FindByID(ctx, testutil.TestIDs.Person1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", found.Name, "first write wins")
}

func TestInMemoryCreate_NilPerson(t *testing.T) {
	store := NewInMemory()
	err := store.Create(context.Background(), nil)
	require.Error(t, err)
}

func TestInMemoryCreate_NilUUIDAccepted(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	var nilID domain.ExternalID
	require.NoError(t, store.Create(ctx, testutil.NewPerson().WithID(nilID).Build()))

	found, err := store.FindByID(ctx, nilID)
	require.NoError(t, err)
	assert.Equal(t, nilID, found.ExternalID)
}

func TestInMemoryFindByID_NotFound(t *testing.T) {
	store := NewInMemory()
	_, err := store.FindByID(context.Background(), testutil.TestIDs.Unknown)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryFindByID_ReturnsCopy(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testutil.NewPerson().Build()))

	found, err := store.FindByID(ctx, testutil.TestIDs.Person1)
	require.NoError(t, err)
	found.Name = "mutated"
	found.DateOfBirth = time.Time{}

	again, err := store.FindByID(ctx, testutil.TestIDs.Person1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", again.Name)
	assert.False(t, again.DateOfBirth.IsZero())
}

func TestInMemoryCreate_ConcurrentSameID(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	const goroutines = 50

	result := testutil.RunConcurrent(goroutines, func(idx int) error {
		return store.Create(ctx, testutil.NewPerson().Build())
	})

	assert.Equal(t, int32(1), result.Successes, "exactly one insert wins")
	assert.Equal(t, int32(goroutines-1), result.AlreadyUsed)
	assert.Equal(t, int32(0), result.Errors)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInMemoryCreate_ConcurrentDistinctIDs(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	const goroutines = 50

	result := testutil.RunConcurrent(goroutines, func(idx int) error {
		return store.Create(ctx, testutil.NewPerson().WithID(domain.NewExternalID()).Build())
	})

	assert.Equal(t, int32(goroutines), result.Successes)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, goroutines, count)
}
