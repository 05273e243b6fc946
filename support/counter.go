package support

import (
	"basketminer/itemset"

	log "github.com/sirupsen/logrus"
)

// Count scans db once and counts, for every candidate, the transactions that
// contain it. Candidates that never occur are present with a zero count.
func Count(db itemset.Database, candidates []itemset.Itemset) map[itemset.Key]int {
	counts := make(map[itemset.Key]int, len(candidates))
	for _, c := range candidates {
		counts[c.Key()] = 0
	}
	for i := 0; i < db.Len(); i++ {
		tr := db.Transaction(i)
		for _, c := range candidates {
			if c.IsSubsetOf(tr) {
				counts[c.Key()]++
			}
		}
	}
	return counts
}

// Scan counts candidates, records all of them in table and returns the ones
// whose support reaches minSupport, keeping candidate order.
func Scan(db itemset.Database, candidates []itemset.Itemset, minSupport float64, table *Table) ([]itemset.Itemset, error) {
	counts := Count(db, candidates)
	frequent := make([]itemset.Itemset, 0)
	for _, c := range candidates {
		count := counts[c.Key()]
		if err := table.Record(c, count); err != nil {
			return nil, err
		}
		if Meets(count, db.Len(), minSupport) {
			frequent = append(frequent, c)
		}
	}
	log.WithFields(log.Fields{
		"candidates": len(candidates),
		"frequent":   len(frequent),
	}).Debug("Scanned candidates.")
	return frequent, nil
}
