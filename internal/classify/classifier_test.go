package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webfindlead/leadworker/helpers"
	"github.com/webfindlead/leadworker/internal/scan"
)

// fetchStub returns a fixed fetch outcome without touching the network.
func fetchStub(result *helpers.FetchResult, err error) FetchFunc {
	return func(_ context.Context, _ string, _ time.Duration) (*helpers.FetchResult, error) {
		return result, err
	}
}

const goodSiteBody = `<html><head>
<meta name="viewport" content="width=device-width">
</head><body>
Contact us at info@cafeluna.com or sales@cafeluna.com.
<a href="https://www.facebook.com/cafeluna">Facebook</a>
<a href="https://instagram.com/cafeluna">Instagram</a>
</body></html>`

func TestClassifyGood(t *testing.T) {
	classifier := New(Options{
		Fetch:    fetchStub(&helpers.FetchResult{StatusCode: 200, Body: []byte(goodSiteBody), Elapsed: 500 * time.Millisecond}, nil),
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
	})

	analysis := classifier.Classify(context.Background(), "https://cafeluna.com")

	assert.Equal(t, scan.StatusGood, analysis.Status)
	assert.Equal(t, []string{"info@cafeluna.com", "sales@cafeluna.com"}, analysis.Emails)
	assert.Equal(t, "https://www.facebook.com/cafeluna", analysis.Socials["facebook"])
	assert.Equal(t, "https://instagram.com/cafeluna", analysis.Socials["instagram"])
}

func TestClassifyLowQualityOnPlainHTTP(t *testing.T) {
	classifier := New(Options{
		Fetch:    fetchStub(&helpers.FetchResult{StatusCode: 200, Body: []byte(goodSiteBody), Elapsed: 100 * time.Millisecond}, nil),
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
	})

	analysis := classifier.Classify(context.Background(), "http://cafeluna.com")
	assert.Equal(t, scan.StatusLowQuality, analysis.Status)
	// Contact extraction still runs on a low-quality site
	assert.Equal(t, 2, len(analysis.Emails))
}

func TestClassifyLowQualityOnSlowLoad(t *testing.T) {
	classifier := New(Options{
		Fetch:    fetchStub(&helpers.FetchResult{StatusCode: 200, Body: []byte(goodSiteBody), Elapsed: 4 * time.Second}, nil),
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
	})

	analysis := classifier.Classify(context.Background(), "https://cafeluna.com")
	assert.Equal(t, scan.StatusLowQuality, analysis.Status)
}

func TestClassifyLowQualityWithoutViewport(t *testing.T) {
	classifier := New(Options{
		Fetch:    fetchStub(&helpers.FetchResult{StatusCode: 200, Body: []byte("<html><body>old site</body></html>"), Elapsed: 100 * time.Millisecond}, nil),
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
	})

	analysis := classifier.Classify(context.Background(), "https://old-site.com")
	assert.Equal(t, scan.StatusLowQuality, analysis.Status)
}

func TestClassifyFetchErrorIsTerminal(t *testing.T) {
	classifier := New(Options{
		Fetch:    fetchStub(nil, errors.New("connection refused")),
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
	})

	// An unreachable site is a tier, never an error
	analysis := classifier.Classify(context.Background(), "https://unreachable.invalid")
	assert.Equal(t, scan.StatusLowQuality, analysis.Status)
	assert.NotNil(t, analysis.Emails)
	assert.Empty(t, analysis.Emails)
	assert.NotNil(t, analysis.Socials)
	assert.Empty(t, analysis.Socials)
}

func TestClassifyEmptyURL(t *testing.T) {
	called := false
	classifier := New(Options{
		Fetch: func(_ context.Context, _ string, _ time.Duration) (*helpers.FetchResult, error) {
			called = true
			return nil, errors.New("should not be called")
		},
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
	})

	analysis := classifier.Classify(context.Background(), "")
	assert.Equal(t, scan.StatusNoWebsite, analysis.Status)
	assert.False(t, called)
}

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{cache: make(map[string][]byte)}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheService) Set(key string, value []byte, _ time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

func TestClassifyServedFromCache(t *testing.T) {
	fetches := 0
	classifier := New(Options{
		Fetch: func(_ context.Context, _ string, _ time.Duration) (*helpers.FetchResult, error) {
			fetches++
			return &helpers.FetchResult{StatusCode: 200, Body: []byte(goodSiteBody), Elapsed: 100 * time.Millisecond}, nil
		},
		Timeout:  5 * time.Second,
		SlowLoad: 3 * time.Second,
		Cache:    NewMockCacheService(),
		CacheTTL: time.Hour,
	})

	first := classifier.Classify(context.Background(), "https://cafeluna.com")
	second := classifier.Classify(context.Background(), "https://cafeluna.com")

	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}
