package support

import (
	"basketminer/itemset"

	"github.com/pkg/errors"
)

type Entry struct {
	Itemset itemset.Itemset `json:"itemset"`
	Count   int             `json:"count"`
	Support float64         `json:"support"`
}

// Table maps itemsets to their support over a fixed number of transactions.
// It keeps every itemset that was counted, frequent or not.
type Table struct {
	total   int
	entries map[itemset.Key]*Entry
}

func NewTable(total int) *Table {
	return &Table{total: total, entries: make(map[itemset.Key]*Entry)}
}

// Total is the transaction count supports are relative to.
func (t *Table) Total() int {
	return t.total
}

// Record stores the raw count of s, replacing a previous value.
func (t *Table) Record(s itemset.Itemset, count int) error {
	if s.IsEmpty() {
		return ErrEmptyItemset
	}
	t.entries[s.Key()] = &Entry{Itemset: s, Count: count, Support: Ratio(count, t.total)}
	return nil
}

func (t *Table) Get(s itemset.Itemset) (float64, bool) {
	e, ok := t.entries[s.Key()]
	if !ok {
		return 0, false
	}
	return e.Support, true
}

func (t *Table) Count(s itemset.Itemset) (int, bool) {
	e, ok := t.entries[s.Key()]
	if !ok {
		return 0, false
	}
	return e.Count, true
}

// Lookup is Get for callers that treat a miss as a fault.
func (t *Table) Lookup(s itemset.Itemset) (float64, error) {
	e, ok := t.entries[s.Key()]
	if !ok {
		return 0, errors.Wrapf(ErrInconsistentTable, "itemset %s", s)
	}
	return e.Support, nil
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns every entry ordered by itemset size, then members.
func (t *Table) Entries() []Entry {
	sets := make([]itemset.Itemset, 0, len(t.entries))
	for _, e := range t.entries {
		sets = append(sets, e.Itemset)
	}
	itemset.Sort(sets)
	out := make([]Entry, 0, len(sets))
	for _, s := range sets {
		out = append(out, *t.entries[s.Key()])
	}
	return out
}

// Frequent returns the entries meeting min, in Entries order.
func (t *Table) Frequent(min float64) []Entry {
	out := make([]Entry, 0)
	for _, e := range t.Entries() {
		if Meets(e.Count, t.total, min) {
			out = append(out, e)
		}
	}
	return out
}
