//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"qrbill/internal/billing"
	"qrbill/internal/billing/store"
	"qrbill/pkg/platform/sentinel"
	"qrbill/pkg/testutil"
	"qrbill/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewRedisStore(s.redis.Client, time.Hour)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	issued := issuedFrom(&s.Suite, testutil.ExampleCreditorReferenceBill())

	s.Require().NoError(s.store.Save(ctx, issued))

	found, err := s.store.FindByID(ctx, issued.ID)
	s.Require().NoError(err)
	s.Equal(issued.QRText, found.QRText)
	s.True(issued.CreatedAt.Equal(found.CreatedAt))
	s.True(issued.Bill.Equal(found.Bill), "found: %+v", found.Bill)
}

func (s *RedisStoreSuite) TestReferenceConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, issuedFrom(&s.Suite, testutil.ExampleCreditorReferenceBill())))

	err := s.store.Save(ctx, issuedFrom(&s.Suite, testutil.ExampleCreditorReferenceBill()))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *RedisStoreSuite) TestOccupiedIDLeavesReferenceFree() {
	ctx := context.Background()
	issued := issuedFrom(&s.Suite, testutil.ExampleCreditorReferenceBill())
	s.Require().NoError(s.redis.Client.Set(ctx, "qrbill:bill:"+issued.ID.String(), "{}", 0).Err())

	err := s.store.Save(ctx, issued)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	retry := issuedFrom(&s.Suite, testutil.ExampleCreditorReferenceBill())
	s.Require().NoError(s.store.Save(ctx, retry))

	found, err := s.store.FindByID(ctx, retry.ID)
	s.Require().NoError(err)
	s.Equal(retry.QRText, found.QRText)
}

func (s *RedisStoreSuite) TestConcurrentSameReference() {
	ctx := context.Background()
	const workers = 10
	bills := make([]*billing.IssuedBill, workers)
	for i := range bills {
		bills[i] = issuedFrom(&s.Suite, testutil.ExampleCreditorReferenceBill())
	}

	var wg sync.WaitGroup
	var saved, conflicts, other atomic.Int32
	for _, issued := range bills {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := s.store.Save(ctx, issued); {
			case err == nil:
				saved.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			default:
				other.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), saved.Load())
	s.Equal(int32(workers-1), conflicts.Load())
	s.Equal(int32(0), other.Load())
}

func (s *RedisStoreSuite) TestExpiry() {
	ctx := context.Background()
	short := store.NewRedisStore(s.redis.Client, time.Second)
	issued := issuedFrom(&s.Suite, testutil.ExampleDonationBill())
	s.Require().NoError(short.Save(ctx, issued))

	s.Eventually(func() bool {
		_, err := short.FindByID(ctx, issued.ID)
		return errors.Is(err, sentinel.ErrNotFound)
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RedisStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
