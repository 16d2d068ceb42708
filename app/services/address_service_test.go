package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/requests"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/responses"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/parser"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGazetteer struct {
	units map[string]string
	calls int
}

func (g *stubGazetteer) Lookup(ctx context.Context, name string, level int) (*models.AdminUnit, error) {
	g.calls++
	if name == "lỗi" {
		return nil, errors.New("meilisearch down")
	}
	id, ok := g.units[name]
	if !ok {
		return nil, nil
	}
	return &models.AdminUnit{AdminID: id, Name: name, Level: level}, nil
}

func newTestService(t *testing.T, cache ICacheService, gazetteer Gazetteer) *AddressService {
	t.Helper()
	ds, err := resources.Default(zap.NewNop())
	require.NoError(t, err)
	p, err := parser.New(ds, parser.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	return NewAddressService(p, cache, gazetteer, false, zap.NewNop())
}

func boolPtr(b bool) *bool { return &b }

func TestAddressService_ParseAddress_Empty(t *testing.T) {
	as := newTestService(t, nil, nil)

	for _, input := range []string{"", "  "} {
		_, _, err := as.ParseAddress(context.Background(), input, requests.ParseOptions{})
		assert.ErrorIs(t, err, ErrEmptyAddress)
	}
}

func TestAddressService_ParseAddress_Cache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheService(0)
	as := newTestService(t, cache, nil)

	first, hit, err := as.ParseAddress(ctx, "12 lê lợi, p1, q3", requests.ParseOptions{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, models.StatusMatched, first.Status)
	assert.Equal(t, 1, cache.Size())

	second, hit, err := as.ParseAddress(ctx, "12 lê lợi, p1, q3", requests.ParseOptions{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Components, second.Components)

	// khác cờ bỏ dấu là khóa khác
	_, hit, err = as.ParseAddress(ctx, "12 lê lợi, p1, q3", requests.ParseOptions{NonAccent: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, cache.Size())

	_, hit, err = as.ParseAddress(ctx, "quận 1, tp. hồ chí minh", requests.ParseOptions{UseCache: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, cache.Size())
}

func TestAddressService_ParseAddress_Options(t *testing.T) {
	ctx := context.Background()
	as := newTestService(t, NewMemoryCacheService(0), nil)
	input := "12 lê lợi, p1, q3"

	testCases := []struct {
		name      string
		options   requests.ParseOptions
		status    string
		solutions bool
	}{
		{name: "Mặc định", options: requests.ParseOptions{}, status: models.StatusMatched},
		{name: "Trả về solutions", options: requests.ParseOptions{ReturnSolutions: true}, status: models.StatusMatched, solutions: true},
		{name: "Ngưỡng cao", options: requests.ParseOptions{MinConfidence: 0.99}, status: models.StatusNeedsReview},
		{name: "Ngưỡng thấp", options: requests.ParseOptions{MinConfidence: 0.5}, status: models.StatusMatched},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, _, err := as.ParseAddress(ctx, input, tc.options)
			require.NoError(t, err)
			assert.Equal(t, tc.status, result.Status)
			if tc.solutions {
				assert.NotEmpty(t, result.Solutions)
			} else {
				assert.Empty(t, result.Solutions)
			}
		})
	}
}

func TestAddressService_ParseAddress_UnmatchedKeepsStatus(t *testing.T) {
	as := newTestService(t, nil, nil)

	result, _, err := as.ParseAddress(context.Background(), "xyz", requests.ParseOptions{MinConfidence: 0.9})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnmatched, result.Status)
}

func TestAddressService_ParseAddress_Enrich(t *testing.T) {
	ctx := context.Background()
	gz := &stubGazetteer{units: map[string]string{"hồ chí minh": "hồ-chí-minh"}}
	as := newTestService(t, NewMemoryCacheService(0), gz)
	input := "quận 1, tp. hồ chí minh"

	plain, _, err := as.ParseAddress(ctx, input, requests.ParseOptions{})
	require.NoError(t, err)
	assert.Zero(t, gz.calls)

	enriched, _, err := as.ParseAddress(ctx, input, requests.ParseOptions{Enrich: true})
	require.NoError(t, err)
	assert.Positive(t, gz.calls)

	region, ok := enriched.Component(models.LabelRegion)
	require.True(t, ok)
	assert.Equal(t, "hồ-chí-minh", region.GazetteerID)

	if county, ok := enriched.Component(models.LabelCounty); ok {
		assert.Empty(t, county.GazetteerID)
	}

	// bản trong cache không bị gắn ID
	again, hit, err := as.ParseAddress(ctx, input, requests.ParseOptions{})
	require.NoError(t, err)
	assert.True(t, hit)
	region, _ = again.Component(models.LabelRegion)
	assert.Empty(t, region.GazetteerID)
	assert.Equal(t, plain.Components, again.Components)
}

func TestAddressService_BatchJob(t *testing.T) {
	as := newTestService(t, nil, nil)
	addresses := []string{"12 lê lợi, p1, q3", "quận 1, tp. hồ chí minh", "xyz", ""}

	job := as.CreateBatchJob(addresses, requests.ParseOptions{MinConfidence: 0.5})
	require.NotEmpty(t, job.JobID)
	assert.Equal(t, len(addresses), job.Total)

	require.Eventually(t, func() bool {
		status, err := as.GetJobStatus(job.JobID)
		return err == nil && status.Status == responses.JobStatusDone
	}, 5*time.Second, 10*time.Millisecond)

	status, err := as.GetJobStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, status.Progress)
	assert.Equal(t, len(addresses), status.Processed)

	results, err := as.GetJobResults(job.JobID)
	require.NoError(t, err)
	require.Len(t, results, len(addresses))
	for i, r := range results {
		assert.Equal(t, addresses[i], r.Raw)
	}
	assert.Equal(t, models.StatusMatched, results[0].Status)
	assert.Equal(t, models.StatusUnmatched, results[2].Status)

	stats := as.GetStats(context.Background())
	assert.Equal(t, int64(len(addresses)), stats.TotalProcessed)
	assert.Equal(t, 1, stats.Jobs)

	assert.Zero(t, as.PruneJobs(time.Hour))
	assert.Equal(t, 1, as.PruneJobs(-time.Second))
	_, err = as.GetJobStatus(job.JobID)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestAddressService_JobNotFound(t *testing.T) {
	as := newTestService(t, nil, nil)

	_, err := as.GetJobStatus("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = as.GetJobResults("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestAddressService_InvalidateCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheService(0)
	as := newTestService(t, cache, nil)

	_, _, err := as.ParseAddress(ctx, "12 lê lợi, p1, q3", requests.ParseOptions{})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, CacheKey("cũ", "x"), &models.AddressResult{DictionaryVersion: "cũ"}))

	resp, err := as.InvalidateCache(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)
	assert.Equal(t, 1, resp.ParserPurged)
	assert.Equal(t, as.Version(), resp.DictionaryVersion)
	assert.Equal(t, 1, cache.Size())

	resp, err = as.InvalidateCache(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)
	assert.Zero(t, cache.Size())
}

func TestAddressService_GetStats(t *testing.T) {
	ctx := context.Background()
	as := newTestService(t, NewMemoryCacheService(0), nil)

	_, _, _ = as.ParseAddress(ctx, "12 lê lợi, p1, q3", requests.ParseOptions{})
	_, _, _ = as.ParseAddress(ctx, "xyz", requests.ParseOptions{})

	stats := as.GetStats(ctx)
	assert.Equal(t, int64(2), stats.TotalProcessed)
	assert.Equal(t, int64(1), stats.StatusCounts[models.StatusMatched])
	assert.Equal(t, int64(1), stats.StatusCounts[models.StatusUnmatched])
	assert.Equal(t, 2, stats.ParserCacheSize)
	require.NotNil(t, stats.Cache)
	assert.Equal(t, 1, as.EstimateBatchProcessingTime(1))
}
