package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository/gormstore"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/dom/xwing-campaign/internal/testutil"
	"github.com/dom/xwing-campaign/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (c *countingPurger) PurgeExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestSessionPurger_RunsImmediately(t *testing.T) {
	purger := &countingPurger{}
	p, err := worker.NewSessionPurger(purger, time.Hour)
	require.NoError(t, err)

	require.NoError(t, p.Start())
	t.Cleanup(func() { _ = p.Shutdown() })

	assert.Eventually(t, func() bool {
		return purger.calls.Load() >= 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSessionPurger_Disabled(t *testing.T) {
	purger := &countingPurger{}
	p, err := worker.NewSessionPurger(purger, 0)
	require.NoError(t, err)

	require.NoError(t, p.Start())
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, p.Shutdown())

	assert.Equal(t, int32(0), purger.calls.Load())
}

func TestSessionPurger_RunOnceSurvivesErrors(t *testing.T) {
	purger := &countingPurger{err: errors.New("database is gone")}
	p, err := worker.NewSessionPurger(purger, time.Hour)
	require.NoError(t, err)

	p.RunOnce()
	p.RunOnce()
	assert.Equal(t, int32(2), purger.calls.Load())
	require.NoError(t, p.Shutdown())
}

func TestSessionPurger_DeletesExpiredSessions(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := gormstore.NewRepositories(testDB.DB)
	ctx := context.Background()
	cfg := testutil.TestConfig()
	auth := service.NewAuthService(repos.User, repos.Session, service.NewBcryptHasher(cfg.BcryptCost), cfg)

	now := time.Now().UTC()
	for _, s := range []*domain.Session{
		{User: "luke", Token: "old", CSRFToken: "c1", Expires: now.Add(-24 * time.Hour)},
		{User: "luke", Token: "new", CSRFToken: "c2", Expires: now.Add(24 * time.Hour)},
	} {
		_, err := repos.Session.Put(ctx, s)
		require.NoError(t, err)
	}

	p, err := worker.NewSessionPurger(auth, time.Hour)
	require.NoError(t, err)
	p.RunOnce()
	require.NoError(t, p.Shutdown())

	remaining, err := repos.Session.Select(ctx, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Token)
}
