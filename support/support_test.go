package support

import (
	"math"
	"testing"

	"basketminer/itemset"

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

func TestValidateThreshold(t *testing.T) {
	for _, v := range []float64{0.0001, 0.5, 1} {
		assert.Nil(t, ValidateThreshold("min_support", v))
	}
	for _, v := range []float64{0, -0.1, 1.0001, math.NaN(), math.Inf(1)} {
		err := ValidateThreshold("min_support", v)
		assert.True(t, errors.Is(err, ErrInvalidThreshold), "value %v", v)
	}
}

func TestCount(t *testing.T) {
	db := marketDB()
	candidates := []itemset.Itemset{
		itemset.New("bread"),
		itemset.New("beer", "diaper"),
		itemset.New("juice", "wings"),
	}
	counts := Count(db, candidates)
	assert.Equal(t, 4, counts[itemset.New("bread").Key()])
	assert.Equal(t, 3, counts[itemset.New("diaper", "beer").Key()])
	c, ok := counts[itemset.New("juice", "wings").Key()]
	assert.True(t, ok)
	assert.Equal(t, 0, c)
}

func TestScanInclusiveThreshold(t *testing.T) {
	db := marketDB()
	table := NewTable(db.Len())
	candidates := []itemset.Itemset{
		itemset.New("beer"),  // 0.6
		itemset.New("wings"), // 0.4
		itemset.New("juice"), // 0.2
	}

	frequent, err := Scan(db, candidates, 0.4, table)
	require.Nil(t, err)
	require.Len(t, frequent, 2)
	assert.True(t, frequent[0].Equal(itemset.New("beer")))
	assert.True(t, frequent[1].Equal(itemset.New("wings")))

	frequent, err = Scan(db, candidates, math.Nextafter(0.4, 1), NewTable(db.Len()))
	require.Nil(t, err)
	assert.Len(t, frequent, 1)

	// infrequent candidates stay in the table
	s, ok := table.Get(itemset.New("juice"))
	assert.True(t, ok)
	assert.InDelta(t, 0.2, s, 1e-12)
}

func TestTable(t *testing.T) {
	table := NewTable(5)
	assert.Equal(t, ErrEmptyItemset, table.Record(itemset.New(), 1))
	require.Nil(t, table.Record(itemset.New("b", "a"), 3))
	require.Nil(t, table.Record(itemset.New("c"), 1))

	s, err := table.Lookup(itemset.New("a", "b"))
	assert.Nil(t, err)
	assert.Equal(t, 0.6, s)
	c, ok := table.Count(itemset.New("a", "b"))
	assert.True(t, ok)
	assert.Equal(t, 3, c)

	_, err = table.Lookup(itemset.New("z"))
	assert.True(t, errors.Is(err, ErrInconsistentTable))
	assert.Equal(t, ErrInconsistentTable, errors.Cause(err))

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "{c}", entries[0].Itemset.String())
	assert.Equal(t, "{a, b}", entries[1].Itemset.String())

	frequent := table.Frequent(0.5)
	require.Len(t, frequent, 1)
	assert.Equal(t, 3, frequent[0].Count)
}
