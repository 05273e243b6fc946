package apriori

import (
	"basketminer/itemset"
)

// initialCandidates returns one single-item candidate per distinct item.
func initialCandidates(db itemset.Database) []itemset.Itemset {
	items := db.Items()
	candidates := make([]itemset.Itemset, 0, len(items))
	for _, it := range items {
		candidates = append(candidates, itemset.New(it))
	}
	return candidates
}

// GenCandidates joins every pair of frequent k-itemsets whose first k-1
// sorted members are identical into a (k+1)-candidate.
// Candidates are not checked against the remaining k-subsets; the counting
// pass discards whatever the join lets through.
func GenCandidates(frequent []itemset.Itemset) []itemset.Itemset {
	numPatterns := len(frequent)
	candidates := make([]itemset.Itemset, 0)
	if numPatterns < 2 {
		return candidates
	}
	k := frequent[0].Len()
	seen := make(map[itemset.Key]bool)
	for i := 0; i < numPatterns; i++ {
		for j := i + 1; j < numPatterns; j++ {
			if !frequent[i].SharesPrefix(frequent[j], k-1) {
				continue
			}
			c := frequent[i].Union(frequent[j])
			if c.Len() != k+1 || seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			candidates = append(candidates, c)
		}
	}
	return candidates
}
