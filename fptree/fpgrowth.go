package fptree

import (
	"basketminer/itemset"
	"basketminer/support"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrRecursionLimit is returned when conditional trees nest deeper than the
// configured limit.
var ErrRecursionLimit = errors.New("fptree: recursion limit reached")

// ErrMalformedTree is returned when a tree's node counts cannot come from
// inserting transactions.
var ErrMalformedTree = errors.New("fptree: malformed tree")

type FrequentItemset struct {
	Itemset itemset.Itemset `json:"itemset"`
	Support float64         `json:"support"`
}

type Result struct {
	Itemsets []FrequentItemset
	Support  *support.Table
}

// Frequent returns the itemsets without their supports.
func (r Result) Frequent() []itemset.Itemset {
	sets := make([]itemset.Itemset, 0, len(r.Itemsets))
	for _, fi := range r.Itemsets {
		sets = append(sets, fi.Itemset)
	}
	return sets
}

// Options bound a mining run. Zero values mean no explicit bound: MaxDepth
// then defaults to the number of frequent items and MaxLength is unlimited.
type Options struct {
	MaxDepth  int
	MaxLength int
}

type miner struct {
	minSupport float64
	total      int
	maxDepth   int
	maxLength  int
	result     *Result
}

// Mine runs FP-growth over db. Recursion depth is bounded by the number of
// frequent items.
func Mine(db itemset.Database, minSupport float64) (Result, error) {
	return MineWithOptions(db, minSupport, Options{})
}

// MineWithMaxDepth is Mine with an explicit recursion bound. A maxDepth of 0
// or less picks the bound from the number of frequent items.
func MineWithMaxDepth(db itemset.Database, minSupport float64, maxDepth int) (Result, error) {
	return MineWithOptions(db, minSupport, Options{MaxDepth: maxDepth})
}

// MineWithOptions runs FP-growth over db within the bounds of opts.
func MineWithOptions(db itemset.Database, minSupport float64, opts Options) (Result, error) {
	if err := validate(minSupport, opts); err != nil {
		return Result{}, err
	}
	if db.Len() == 0 {
		return Result{}, errors.Wrap(support.ErrEmptyDatabase, "fpgrowth")
	}
	return mineWeighted(db.Compact(), minSupport, db.Len(), opts)
}

// MineTree runs FP-growth over the transactions stored in t. total is the
// number of transactions the tree was built from, including those that
// contributed no frequent item. minSupport must not be below the support
// the tree was built with, otherwise itemsets pruned at build time are
// silently missing from the result.
func MineTree(t *Tree, minSupport float64, total int, opts Options) (Result, error) {
	if err := validate(minSupport, opts); err != nil {
		return Result{}, err
	}
	if total <= 0 {
		return Result{}, errors.Wrap(support.ErrEmptyDatabase, "fpgrowth tree")
	}
	trns, err := t.Transactions()
	if err != nil {
		return Result{}, err
	}
	if trns.Total() > total {
		return Result{}, errors.Wrapf(ErrMalformedTree, "tree holds %d transactions, total is %d", trns.Total(), total)
	}
	return mineWeighted(trns, minSupport, total, opts)
}

func validate(minSupport float64, opts Options) error {
	if err := support.ValidateThreshold("min_support", minSupport); err != nil {
		return err
	}
	return support.ValidateMaxLength(opts.MaxLength)
}

func mineWeighted(trns *itemset.Weighted, minSupport float64, total int, opts Options) (Result, error) {
	result := &Result{Itemsets: make([]FrequentItemset, 0), Support: support.NewTable(total)}
	tree := Build(trns, minSupport, total)
	if tree == nil {
		log.WithField("transactions", total).Info("No frequent items for fp growth.")
		return *result, nil
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = len(tree.CountMap)
	}
	m := &miner{
		minSupport: minSupport,
		total:      total,
		maxDepth:   maxDepth,
		maxLength:  opts.MaxLength,
		result:     result,
	}
	if err := m.mineTree(tree, itemset.New(), 1); err != nil {
		return Result{}, err
	}

	log.WithFields(log.Fields{
		"transactions": total,
		"distinct":     trns.Distinct(),
		"nodes":        tree.NodeCount(),
		"patterns":     len(result.Itemsets),
	}).Info("FP growth finished.")
	return *result, nil
}

// mineTree visits header items from the least frequent up, records
// prefix+item and recurses into the item's conditional tree.
func (m *miner) mineTree(tr *Tree, prefix itemset.Itemset, depth int) error {
	if depth > m.maxDepth {
		return errors.Wrapf(ErrRecursionLimit, "depth %d, prefix %s", depth, prefix)
	}
	for _, patt := range tr.Items() {
		base := prefix.With(patt)
		count := tr.CountMap[patt]
		if err := m.result.Support.Record(base, count); err != nil {
			return err
		}
		m.result.Itemsets = append(m.result.Itemsets, FrequentItemset{
			Itemset: base,
			Support: support.Ratio(count, m.total),
		})

		if m.maxLength > 0 && base.Len() >= m.maxLength {
			continue
		}
		condPatt := tr.findPrefixPath(patt)
		cTr := createCondTree(condPatt, m.minSupport, m.total)
		if cTr == nil {
			continue
		}
		log.WithFields(log.Fields{
			"prefix": base.String(),
			"items":  len(cTr.CountMap),
		}).Debug("Mining conditional tree.")
		if err := m.mineTree(cTr, base, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// createCondTree builds the conditional tree for a pattern base.
func createCondTree(condPatt *itemset.Weighted, minSupport float64, total int) *Tree {
	if condPatt.Distinct() == 0 {
		return nil
	}
	return Build(condPatt, minSupport, total)
}

// findPrefixPath collects, for every node of basePat, the items on the way
// up to the root weighted by that node's count.
func (t *Tree) findPrefixPath(basePat string) *itemset.Weighted {
	condPattern := itemset.NewWeighted()
	for _, n := range t.Chain(basePat) {
		prefixPath := make([]string, 0)
		t.ascendFpTree(t.nodes[n].ParentNode, &prefixPath)
		if len(prefixPath) > 0 {
			condPattern.Add(itemset.New(prefixPath...), t.nodes[n].Counter)
		}
	}
	return condPattern
}

// PrefixPaths is the conditional pattern base of item.
func (t *Tree) PrefixPaths(item string) *itemset.Weighted {
	return t.findPrefixPath(item)
}

// ascendFpTree walks from n to the root, root excluded.
func (t *Tree) ascendFpTree(n int, prefixPath *[]string) {
	for n != nilNode && n != rootNode {
		*prefixPath = append(*prefixPath, t.nodes[n].Item)
		n = t.nodes[n].ParentNode
	}
}
