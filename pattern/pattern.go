package pattern

import (
	"strings"
	"time"

	"basketminer/apriori"
	"basketminer/fptree"
	"basketminer/itemset"
	"basketminer/rules"
	"basketminer/support"

	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Algorithm string

const (
	AlgorithmApriori  Algorithm = "apriori"
	AlgorithmFPGrowth Algorithm = "fpgrowth"
)

var ErrUnknownAlgorithm = E.New("pattern: unknown algorithm")

func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "apriori":
		return AlgorithmApriori, nil
	case "fpgrowth", "fp-growth", "fp_growth":
		return AlgorithmFPGrowth, nil
	}
	return "", E.Wrapf(ErrUnknownAlgorithm, "%q", name)
}

type Params struct {
	Algorithm     Algorithm
	MinSupport    float64
	MinConfidence float64

	// MaxLength bounds the size of mined itemsets, 0 means unbounded.
	MaxLength int
}

func (p Params) Validate() error {
	if _, err := ParseAlgorithm(string(p.Algorithm)); err != nil {
		return err
	}
	if err := support.ValidateThreshold("min_support", p.MinSupport); err != nil {
		return err
	}
	if err := support.ValidateMaxLength(p.MaxLength); err != nil {
		return err
	}
	return support.ValidateThreshold("min_confidence", p.MinConfidence)
}

// Result is the engine independent outcome of one mining run.
type Result struct {
	Algorithm     Algorithm       `json:"algorithm"`
	Transactions  int             `json:"transactions"`
	MinSupport    float64         `json:"min_support"`
	MinConfidence float64         `json:"min_confidence"`
	MaxLength     int             `json:"max_length,omitempty"`
	Itemsets      []support.Entry `json:"itemsets"`
	Rules         []rules.Rule    `json:"rules"`
	DurationMs    int64           `json:"duration_ms"`

	// Support covers every itemset the engine counted.
	Support *support.Table `json:"-"`
}

// Frequent returns the frequent itemsets in Itemsets order.
func (r Result) Frequent() []itemset.Itemset {
	sets := make([]itemset.Itemset, 0, len(r.Itemsets))
	for _, e := range r.Itemsets {
		sets = append(sets, e.Itemset)
	}
	return sets
}

// BySize groups the frequent itemsets by their number of items.
func (r Result) BySize() map[int][]support.Entry {
	groups := make(map[int][]support.Entry)
	for _, e := range r.Itemsets {
		groups[e.Itemset.Len()] = append(groups[e.Itemset.Len()], e)
	}
	return groups
}

// Mine runs the selected engine and derives rules from its output.
func Mine(db itemset.Database, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	algo, _ := ParseAlgorithm(string(params.Algorithm))
	params.Algorithm = algo
	logCtx := log.WithFields(log.Fields{
		"algorithm":      algo,
		"transactions":   db.Len(),
		"min_support":    params.MinSupport,
		"min_confidence": params.MinConfidence,
		"max_length":     params.MaxLength,
	})

	start := time.Now()
	var frequent []itemset.Itemset
	var table *support.Table
	switch algo {
	case AlgorithmApriori:
		res, err := apriori.RunWithMaxLength(db, params.MinSupport, params.MaxLength)
		if err != nil {
			logCtx.WithError(err).Error("Apriori failed.")
			return Result{}, err
		}
		frequent, table = res.Frequent(), res.Support
	case AlgorithmFPGrowth:
		res, err := fptree.MineWithOptions(db, params.MinSupport, fptree.Options{MaxLength: params.MaxLength})
		if err != nil {
			logCtx.WithError(err).Error("FP growth failed.")
			return Result{}, err
		}
		frequent, table = res.Frequent(), res.Support
	}
	return assemble(logCtx, params, db.Len(), frequent, table, start)
}

// MineFPTree runs FP-growth over a stored tree built from total
// transactions. params.Algorithm is ignored.
func MineFPTree(tree *fptree.Tree, total int, params Params) (Result, error) {
	params.Algorithm = AlgorithmFPGrowth
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	logCtx := log.WithFields(log.Fields{
		"algorithm":      params.Algorithm,
		"transactions":   total,
		"min_support":    params.MinSupport,
		"min_confidence": params.MinConfidence,
		"max_length":     params.MaxLength,
		"nodes":          tree.NodeCount(),
	})

	start := time.Now()
	res, err := fptree.MineTree(tree, params.MinSupport, total, fptree.Options{MaxLength: params.MaxLength})
	if err != nil {
		logCtx.WithError(err).Error("FP growth over stored tree failed.")
		return Result{}, err
	}
	return assemble(logCtx, params, total, res.Frequent(), res.Support, start)
}

func assemble(logCtx *log.Entry, params Params, total int, frequent []itemset.Itemset,
	table *support.Table, start time.Time) (Result, error) {
	ruleSet, err := rules.Generate(frequent, table, params.MinConfidence)
	if err != nil {
		logCtx.WithError(err).Error("Rule generation failed.")
		return Result{}, err
	}
	rules.SortByConfidence(ruleSet)

	itemset.Sort(frequent)
	entries := make([]support.Entry, 0, len(frequent))
	for _, s := range frequent {
		count, _ := table.Count(s)
		sup, _ := table.Get(s)
		entries = append(entries, support.Entry{Itemset: s, Count: count, Support: sup})
	}

	result := Result{
		Algorithm:     params.Algorithm,
		Transactions:  total,
		MinSupport:    params.MinSupport,
		MinConfidence: params.MinConfidence,
		MaxLength:     params.MaxLength,
		Itemsets:      entries,
		Rules:         ruleSet,
		DurationMs:    time.Since(start).Milliseconds(),
		Support:       table,
	}
	logCtx.WithFields(log.Fields{
		"itemsets": len(entries),
		"rules":    len(ruleSet),
		"ms":       result.DurationMs,
	}).Info("Mining finished.")
	return result, nil
}
