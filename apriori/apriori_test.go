package apriori

import (
	"math"
	"testing"

	"basketminer/itemset"
	"basketminer/support"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marketDB() itemset.Database {
	return itemset.NewDatabase([][]string{
		{"milk", "bread"},
		{"bread", "diaper", "beer", "juice"},
		{"milk", "diaper", "beer", "wings"},
		{"bread", "milk", "diaper", "beer"},
		{"bread", "milk", "diaper", "wings"},
	})
}

func levelStrings(level []itemset.Itemset) []string {
	out := make([]string, 0, len(level))
	for _, s := range level {
		out = append(out, s.String())
	}
	return out
}

func TestRunMarketBasket(t *testing.T) {
	res, err := Run(marketDB(), 0.3)
	require.Nil(t, err)
	require.Len(t, res.Levels, 3)

	assert.Equal(t, []string{"{beer}", "{bread}", "{diaper}", "{milk}", "{wings}"}, levelStrings(res.Levels[0]))
	assert.Equal(t, []string{
		"{beer, bread}", "{beer, diaper}", "{beer, milk}", "{bread, diaper}",
		"{bread, milk}", "{diaper, milk}", "{diaper, wings}", "{milk, wings}",
	}, levelStrings(res.Levels[1]))
	assert.Equal(t, []string{
		"{beer, bread, diaper}", "{beer, diaper, milk}", "{bread, diaper, milk}", "{diaper, milk, wings}",
	}, levelStrings(res.Levels[2]))
	assert.Len(t, res.Frequent(), 17)

	expected := map[string]float64{
		"{bread}":               0.8,
		"{milk}":                0.8,
		"{diaper}":              0.8,
		"{beer}":                0.6,
		"{bread, milk}":         0.6,
		"{diaper, milk}":        0.6,
		"{beer, diaper}":        0.6,
		"{beer, bread, diaper}": 0.4,
	}
	for _, s := range res.Frequent() {
		if want, ok := expected[s.String()]; ok {
			got, found := res.Support.Get(s)
			assert.True(t, found)
			assert.InDelta(t, want, got, 1e-12, s.String())
		}
	}

	// infrequent itemsets that were counted are kept for later lookups
	juice, ok := res.Support.Get(itemset.New("juice"))
	assert.True(t, ok)
	assert.InDelta(t, 0.2, juice, 1e-12)
	_, ok = res.Support.Get(itemset.New("beer", "bread", "milk"))
	assert.True(t, ok)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(itemset.NewDatabase(nil), 0.3)
	assert.True(t, errors.Is(err, support.ErrEmptyDatabase))

	for _, ms := range []float64{0, -1, 1.5, math.NaN()} {
		_, err = Run(marketDB(), ms)
		assert.True(t, errors.Is(err, support.ErrInvalidThreshold))
	}
}

func TestRunNothingFrequent(t *testing.T) {
	db := itemset.NewDatabase([][]string{{"a"}, {"b"}, {"c"}})
	res, err := Run(db, 0.5)
	require.Nil(t, err)
	assert.Len(t, res.Levels, 0)
	assert.Equal(t, 3, res.Support.Len())
}

func TestThresholdBoundary(t *testing.T) {
	// beer occurs in 3 of 5 transactions
	res, err := Run(marketDB(), 0.6)
	require.Nil(t, err)
	assert.Contains(t, levelStrings(res.Levels[0]), "{beer}")

	res, err = Run(marketDB(), math.Nextafter(0.6, 1))
	require.Nil(t, err)
	assert.NotContains(t, levelStrings(res.Levels[0]), "{beer}")
}

func TestAntiMonotonicity(t *testing.T) {
	res, err := Run(marketDB(), 0.2)
	require.Nil(t, err)
	for _, e := range res.Support.Entries() {
		for size := 1; size < e.Itemset.Len(); size++ {
			for _, sub := range e.Itemset.Subsets(size) {
				s, ok := res.Support.Get(sub)
				if ok {
					assert.GreaterOrEqual(t, s, e.Support, "%s vs %s", sub, e.Itemset)
				}
			}
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	a, err := Run(marketDB(), 0.3)
	require.Nil(t, err)
	b, err := Run(marketDB(), 0.3)
	require.Nil(t, err)
	assert.Equal(t, a.Levels, b.Levels)
	assert.Equal(t, a.Support.Entries(), b.Support.Entries())
}

func TestGenCandidatesJoinsOnPrefixOnly(t *testing.T) {
	// {b, c} is not frequent, the join still proposes {a, b, c}
	frequent := []itemset.Itemset{itemset.New("a", "b"), itemset.New("a", "c"), itemset.New("b", "d")}
	candidates := GenCandidates(frequent)
	require.Len(t, candidates, 1)
	assert.Equal(t, "{a, b, c}", candidates[0].String())

	assert.Len(t, GenCandidates(frequent[:1]), 0)

	singles := []itemset.Itemset{itemset.New("a"), itemset.New("b"), itemset.New("c")}
	assert.Equal(t, []string{"{a, b}", "{a, c}", "{b, c}"}, levelStrings(GenCandidates(singles)))
}

func TestRunWithMaxLength(t *testing.T) {
	full, err := Run(marketDB(), 0.3)
	require.Nil(t, err)
	require.True(t, len(full.Levels) > 2)

	bounded, err := RunWithMaxLength(marketDB(), 0.3, 2)
	require.Nil(t, err)
	require.Len(t, bounded.Levels, 2)
	assert.Equal(t, levelStrings(full.Levels[0]), levelStrings(bounded.Levels[0]))
	assert.Equal(t, levelStrings(full.Levels[1]), levelStrings(bounded.Levels[1]))

	items := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n"}
	res, err := RunWithMaxLength(itemset.NewDatabase([][]string{items, items, items}), 1, 3)
	require.Nil(t, err)
	// 14 + 91 + 364
	assert.Len(t, res.Frequent(), 469)

	_, err = RunWithMaxLength(marketDB(), 0.3, -1)
	assert.True(t, errors.Is(err, support.ErrInvalidMaxLength))
}
