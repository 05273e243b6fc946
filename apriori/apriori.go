package apriori

import (
	"basketminer/itemset"
	"basketminer/support"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Result holds the frequent itemsets per level and the support of every
// itemset that was counted along the way.
type Result struct {
	// Levels[k-1] holds the frequent k-itemsets.
	Levels  [][]itemset.Itemset
	Support *support.Table
}

// Frequent flattens all levels.
func (r Result) Frequent() []itemset.Itemset {
	all := make([]itemset.Itemset, 0)
	for _, l := range r.Levels {
		all = append(all, l...)
	}
	return all
}

// Run mines db level by level until a level has no frequent itemsets or no
// further candidates can be joined.
func Run(db itemset.Database, minSupport float64) (Result, error) {
	return RunWithMaxLength(db, minSupport, 0)
}

// RunWithMaxLength is Run that stops after the level of maxLength-itemsets.
// A maxLength of 0 leaves the levels unbounded.
func RunWithMaxLength(db itemset.Database, minSupport float64, maxLength int) (Result, error) {
	if err := support.ValidateThreshold("min_support", minSupport); err != nil {
		return Result{}, err
	}
	if err := support.ValidateMaxLength(maxLength); err != nil {
		return Result{}, err
	}
	if db.Len() == 0 {
		return Result{}, errors.Wrap(support.ErrEmptyDatabase, "apriori")
	}

	table := support.NewTable(db.Len())
	levels := make([][]itemset.Itemset, 0)
	candidates := initialCandidates(db)
	for k := 1; len(candidates) > 0; k++ {
		frequent, err := support.Scan(db, candidates, minSupport, table)
		if err != nil {
			return Result{}, err
		}
		log.WithFields(log.Fields{
			"level":      k,
			"candidates": len(candidates),
			"frequent":   len(frequent),
		}).Debug("Apriori level counted.")
		if len(frequent) == 0 {
			break
		}
		levels = append(levels, frequent)
		if maxLength > 0 && k >= maxLength {
			break
		}
		candidates = GenCandidates(frequent)
	}

	log.WithFields(log.Fields{
		"transactions": db.Len(),
		"levels":       len(levels),
		"counted":      table.Len(),
	}).Info("Apriori finished.")
	return Result{Levels: levels, Support: table}, nil
}
