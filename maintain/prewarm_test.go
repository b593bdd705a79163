package maintain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/catalog"
)

func prewarmCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), catalog.SliceLoader{
		{Vendor: "Atlassian", Solution: "Jira Software"},
		{Vendor: "Atlassian", Solution: "Confluence"},
		{Vendor: "Atlassian", Solution: "Bitbucket"},
		{Vendor: "Atlassian", Solution: "Trello"},
		{Vendor: "Adobe", Solution: "Photoshop"},
		{Vendor: "Adobe", Solution: "Illustrator"},
		{Vendor: "Slack", Solution: "Enterprise Grid"},
	})
	require.NoError(t, err)
	return cat
}

type recordingWarmer struct {
	mu    sync.Mutex
	pairs [][2]string
}

func (w *recordingWarmer) warm(ctx context.Context, vendor, solution string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pairs = append(w.pairs, [2]string{vendor, solution})
	return nil
}

func TestNewPrewarmerRequiresWarmer(t *testing.T) {
	_, err := NewPrewarmer(prewarmCatalog(t), nil)
	assert.ErrorIs(t, err, ErrWarmerRequired)
}

func TestPrewarmerRun(t *testing.T) {
	w := &recordingWarmer{}
	p, err := NewPrewarmer(prewarmCatalog(t), w.warm,
		WithTopVendors(2),
		WithSolutionsPerVendor(3))
	require.NoError(t, err)
	defer p.Release()

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	// Atlassian has 4 solutions, capped at 3; Adobe has 2. Slack is not
	// among the top 2 vendors.
	assert.Equal(t, 5, report.Warmed)
	assert.Zero(t, report.Failed)
	assert.Len(t, w.pairs, 5)
	for _, pair := range w.pairs {
		assert.NotEqual(t, "Slack", pair[0])
	}
}

func TestPrewarmerCountsFailures(t *testing.T) {
	fail := errors.New("marketplace down")
	warm := func(ctx context.Context, vendor, solution string) error {
		if vendor == "Adobe" {
			return fail
		}
		return nil
	}

	p, err := NewPrewarmer(prewarmCatalog(t), warm,
		WithTopVendors(2),
		WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Warmed)
	assert.Equal(t, 2, report.Failed)
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffExhausted(t *testing.T) {
	fail := errors.New("permanent")
	err := RetryWithBackoff(context.Background(), func() error { return fail }, 2, time.Millisecond)
	assert.ErrorIs(t, err, fail)
}

func TestRetryWithBackoffInvalidAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoffContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return errors.New("x") }, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}
