package refcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
	"github.com/sells-group/risk-dashboard/pkg/scoring/mocks"
)

func agesDist() *model.StatDistribution {
	return &model.StatDistribution{
		Kind:      model.StatAges,
		Repaid:    model.BucketMap{"30": 2},
		NotRepaid: model.BucketMap{"40": 1},
	}
}

func TestClientIDs_MemoizesAfterFirstCall(t *testing.T) {
	client := mocks.NewMockClient(t)
	ids := []model.ClientID{"1000", "1001"}
	client.On("ClientIDs", mock.Anything).Return(ids, nil).Once()

	c := New(client)
	first, err := c.ClientIDs(context.Background())
	require.NoError(t, err)
	second, err := c.ClientIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ids, first)
	assert.Equal(t, first, second)
	assert.Same(t, &first[0], &second[0])

	st := c.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, 1, st.Entries)
}

func TestStatistics_ConcurrentFirstCallersShareOneFetch(t *testing.T) {
	client := mocks.NewMockClient(t)
	var calls atomic.Int32
	client.On("Statistics", mock.Anything, model.StatAges).
		Run(func(mock.Arguments) { calls.Add(1) }).
		After(50*time.Millisecond).
		Return(agesDist(), nil).
		Once()

	c := New(client)

	const n = 16
	results := make([]*model.StatDistribution, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := c.Statistics(context.Background(), model.StatAges)
			assert.NoError(t, err)
			results[i] = d
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, d := range results {
		assert.Same(t, results[0], d)
	}
}

func TestStatistics_FailureIsNotMemoized(t *testing.T) {
	client := mocks.NewMockClient(t)
	unavailable := &scoring.APIError{Endpoint: "statistics_ages", Kind: scoring.ErrUnavailable}
	client.On("Statistics", mock.Anything, model.StatAges).Return(nil, unavailable).Once()
	client.On("Statistics", mock.Anything, model.StatAges).Return(agesDist(), nil).Once()

	c := New(client)

	_, err := c.Statistics(context.Background(), model.StatAges)
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrUnavailable)
	assert.Equal(t, 0, c.Stats().Entries)

	got, err := c.Statistics(context.Background(), model.StatAges)
	require.NoError(t, err)
	assert.Equal(t, model.BucketMap{"30": 2}, got.Repaid)
}

func TestStatistics_UnknownKind(t *testing.T) {
	c := New(mocks.NewMockClient(t))
	_, err := c.Statistics(context.Background(), model.StatKind("weights"))
	require.Error(t, err)
}

func TestTTL_ExpiresEntries(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return([]model.ClientID{"1"}, nil).Twice()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(client, WithTTL(time.Minute))
	c.nowFunc = func() time.Time { return now }

	_, err := c.ClientIDs(context.Background())
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = c.ClientIDs(context.Background())
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.ClientIDs(context.Background())
	require.NoError(t, err)

	st := c.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
}

func TestInvalidate(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return([]model.ClientID{"1"}, nil).Twice()

	c := New(client)
	_, err := c.ClientIDs(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.ClientIDs(context.Background())
	require.NoError(t, err)
}

func TestLookupHook(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return([]model.ClientID{"1"}, nil).Once()

	var seen []string
	c := New(client, WithLookupHook(func(entry, result string) {
		seen = append(seen, entry+":"+result)
	}))

	for range 2 {
		_, err := c.ClientIDs(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"clients:miss", "clients:hit"}, seen)
}

func TestWarm_FetchesEveryEntry(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return([]model.ClientID{"1"}, nil).Once()
	for _, kind := range model.StatKinds {
		client.On("Statistics", mock.Anything, kind).
			Return(&model.StatDistribution{Kind: kind}, nil).Once()
	}

	c := New(client)
	require.NoError(t, c.Warm(context.Background()))
	assert.Equal(t, 1+len(model.StatKinds), c.Stats().Entries)

	// Everything is served from memory afterwards.
	_, err := c.Statistics(context.Background(), model.StatAmtCredit)
	require.NoError(t, err)
}

func TestWarm_KeepsPartialResults(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return([]model.ClientID{"1"}, nil).Once()
	client.On("Statistics", mock.Anything, model.StatAges).
		Return(nil, &scoring.APIError{Kind: scoring.ErrUnavailable}).Once()
	client.On("Statistics", mock.Anything, model.StatYearsEmployed).
		Return(&model.StatDistribution{Kind: model.StatYearsEmployed}, nil).Once()
	client.On("Statistics", mock.Anything, model.StatAmtCredit).
		Return(&model.StatDistribution{Kind: model.StatAmtCredit}, nil).Once()

	c := New(client)
	err := c.Warm(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrUnavailable)

	// Let the detached fetches finish storing.
	require.Eventually(t, func() bool { return c.Stats().Entries == 3 }, time.Second, 5*time.Millisecond)
}

func TestLookup_CallerCancellation(t *testing.T) {
	client := mocks.NewMockClient(t)
	release := make(chan struct{})
	client.On("ClientIDs", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return([]model.ClientID{"1"}, nil).
		Once()

	c := New(client)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ClientIDs(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	ids, err := c.ClientIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.ClientID{"1"}, ids)
}
