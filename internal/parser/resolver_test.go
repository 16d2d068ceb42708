package parser

import (
	"testing"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAliasResolver_Resolve(t *testing.T) {
	ds, err := resources.Default(zap.NewNop())
	require.NoError(t, err)
	r := NewRegionResolver(ds, DefaultResolverOptions())

	testCases := []struct {
		input     string
		canonical string
		strategy  string
	}{
		{"hà nội", "hà nội", models.MatchStrategyExact},
		{"  Hà Nội ", "hà nội", models.MatchStrategyExact},
		{"sài gòn", "hồ chí minh", models.MatchStrategyAlias},
		{"ha noi", "hà nội", models.MatchStrategyAlias},
		{"đa nang", "đà nẵng", models.MatchStrategyAsciiExact},
		{"quang ninhh", "quảng ninh", models.MatchStrategyFuzzy},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			res, ok := r.Resolve(tc.input)
			require.True(t, ok)
			assert.Equal(t, tc.canonical, res.Canonical)
			assert.Equal(t, tc.strategy, res.Strategy)
			assert.GreaterOrEqual(t, res.Score, 0.88)
		})
	}

	for _, input := range []string{"", "zzzz", "quận"} {
		_, ok := r.Resolve(input)
		assert.False(t, ok, input)
	}
}

func TestAliasResolver_Threshold(t *testing.T) {
	aliases := map[string]string{"quảng ninh": "quảng ninh"}
	canonicals := []string{"quảng ninh"}

	loose := NewAliasResolver(aliases, canonicals, ResolverOptions{Threshold: 0.5})
	_, ok := loose.Resolve("quang binh")
	assert.True(t, ok)

	strict := NewAliasResolver(aliases, canonicals, ResolverOptions{Threshold: 0.99})
	_, ok = strict.Resolve("quang binh")
	assert.False(t, ok)
}
