package itemset

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Database is an ordered sequence of transactions.
type Database struct {
	transactions []Itemset
}

// NewDatabase builds a database from raw baskets. Duplicate items inside a
// basket collapse; empty baskets are kept since they still count towards
// the total.
func NewDatabase(baskets [][]string) Database {
	trns := make([]Itemset, 0, len(baskets))
	for _, b := range baskets {
		trns = append(trns, New(b...))
	}
	return Database{transactions: trns}
}

func (db Database) Len() int {
	return len(db.transactions)
}

func (db Database) Transaction(i int) Itemset {
	return db.transactions[i]
}

func (db Database) Transactions() []Itemset {
	cp := make([]Itemset, len(db.transactions))
	copy(cp, db.transactions)
	return cp
}

// Items returns every distinct item in ascending order.
func (db Database) Items() []string {
	items := maps.Keys(db.ItemCounts())
	slices.Sort(items)
	return items
}

// ItemCounts counts in how many transactions each item occurs.
func (db Database) ItemCounts() map[string]int {
	counts := make(map[string]int)
	for _, tr := range db.transactions {
		for _, it := range tr.items {
			counts[it]++
		}
	}
	return counts
}

// Compact folds identical transactions into a weighted multiset.
func (db Database) Compact() *Weighted {
	w := NewWeighted()
	for _, tr := range db.transactions {
		w.Add(tr, 1)
	}
	return w
}

type WeightedEntry struct {
	Itemset Itemset
	Weight  int
}

// Weighted is a multiset of itemsets that remembers first insertion order,
// so iteration is reproducible.
type Weighted struct {
	order   []Key
	entries map[Key]*WeightedEntry
	total   int
}

func NewWeighted() *Weighted {
	return &Weighted{entries: make(map[Key]*WeightedEntry)}
}

// Add increases the multiplicity of s by weight.
func (w *Weighted) Add(s Itemset, weight int) {
	w.total += weight
	if e, ok := w.entries[s.key]; ok {
		e.Weight += weight
		return
	}
	w.entries[s.key] = &WeightedEntry{Itemset: s, Weight: weight}
	w.order = append(w.order, s.key)
}

func (w *Weighted) Entries() []WeightedEntry {
	out := make([]WeightedEntry, 0, len(w.order))
	for _, k := range w.order {
		out = append(out, *w.entries[k])
	}
	return out
}

func (w *Weighted) Weight(s Itemset) int {
	if e, ok := w.entries[s.key]; ok {
		return e.Weight
	}
	return 0
}

// Distinct is the number of distinct itemsets.
func (w *Weighted) Distinct() int {
	return len(w.order)
}

// Total is the summed multiplicity across all itemsets.
func (w *Weighted) Total() int {
	return w.total
}
