//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pidstore/internal/person/cache"
	"pidstore/internal/sentinel"
	"pidstore/pkg/testutil"
	"pidstore/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisCacheSuite) TestMissThenHit() {
	ctx := context.Background()
	person := testutil.NewPerson().Build()

	_, err := s.cache.Get(ctx, person.ExternalID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Set(ctx, person))

	got, err := s.cache.Get(ctx, person.ExternalID)
	s.Require().NoError(err)
	s.Equal(person.Name, got.Name)
	s.True(person.DateOfBirth.Equal(got.DateOfBirth))
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	short := cache.NewRedis(s.redis.Client, 100*time.Millisecond)
	s.Require().NoError(short.Set(ctx, testutil.NewPerson().Build()))

	s.Eventually(func() bool {
		_, err := short.Get(ctx, testutil.TestIDs.Person1)
		return err == sentinel.ErrNotFound
	}, 3*time.Second, 50*time.Millisecond)
}

func (s *RedisCacheSuite) TestTTLIsApplied() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, testutil.NewPerson().Build()))

	ttl, err := s.redis.Client.TTL(ctx, "person:"+testutil.TestIDs.Person1.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
