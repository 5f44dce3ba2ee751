package bloom_test

import (
	"strconv"
	"testing"

	"github.com/fwojciec/webgraph/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Test(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		added  string
		lookup string
		want   bool
	}{
		{"same url", "https://example.com/a", "https://example.com/a", true},
		{"other path", "https://example.com/a", "https://example.com/b", false},
		{"host case ignored", "HTTPS://Example.COM/Docs", "https://example.com/Docs", true},
		{"path case kept", "https://example.com/Docs", "https://example.com/docs", false},
		{"query kept", "https://example.com/a?x=1", "https://example.com/a?x=2", false},
		{"unparseable compared raw", "%zz", "%zz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := bloom.NewFilter(100, 0.01)
			f.Add(tt.added)

			assert.Equal(t, tt.want, f.Test(tt.lookup))
		})
	}
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(100, 0.01)

	assert.False(t, f.TestAndAdd("https://www.python.org"))
	assert.True(t, f.TestAndAdd("https://www.python.org"))
	assert.True(t, f.TestAndAdd("https://WWW.PYTHON.ORG"))
	assert.Equal(t, uint(1), f.EstimatedCount())
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Zero(t, f.EstimatedCount())

	for _, u := range []string{"https://a.test", "https://b.test", "https://c.test", "https://a.test"} {
		f.Add(u)
	}

	assert.InDelta(t, 3, f.EstimatedCount(), 1)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 5000
	f := bloom.NewFilter(n, 0.01)
	for i := range n {
		f.Add("https://seen.test/" + strconv.Itoa(i))
	}

	hits := 0
	for i := range n {
		if f.Test("https://unseen.test/" + strconv.Itoa(i)) {
			hits++
		}
	}

	assert.Less(t, float64(hits)/n, 0.02)
}
