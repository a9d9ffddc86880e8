package seeder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pidstore/internal/person/service"
	"pidstore/internal/person/store"
)

func TestSeedAll_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	personStore := store.NewInMemory()
	s := New(service.New(personStore), nil)

	created, err := s.SeedAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = s.SeedAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "second run finds every record")

	count, err := personStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	alice, err := personStore.FindByID(ctx, DemoID("alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Alice Anderson", alice.Name)
}

func TestDemoID_Stable(t *testing.T) {
	assert.Equal(t, DemoID("bob@example.com"), DemoID("bob@example.com"))
	assert.NotEqual(t, DemoID("bob@example.com"), DemoID("eve@example.com"))
}
