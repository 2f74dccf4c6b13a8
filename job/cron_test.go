package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu     sync.Mutex
	before []time.Time
	err    error
}

func (f *fakePruner) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = append(f.before, before)
	return 3, f.err
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.before)
}

func TestPruneCallLogs(t *testing.T) {
	p := &fakePruner{}
	now := time.Date(2026, 6, 8, 3, 0, 0, 0, time.UTC)

	PruneCallLogs(context.Background(), p, 7*24*time.Hour, now)

	require.Len(t, p.before, 1)
	assert.Equal(t, time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC), p.before[0])
}

func TestPruneCallLogsError(t *testing.T) {
	p := &fakePruner{err: errors.New("db locked")}
	PruneCallLogs(context.Background(), p, time.Hour, time.Now())
	assert.Equal(t, 1, p.calls())
}

func TestStartCronJob(t *testing.T) {
	p := &fakePruner{}
	c, err := StartCronJob(p, "* * * * * *", time.Hour)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return p.calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartCronJobInvalidSpec(t *testing.T) {
	_, err := StartCronJob(&fakePruner{}, "every day", time.Hour)
	assert.Error(t, err)
}
