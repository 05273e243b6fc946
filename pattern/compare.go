package pattern

import (
	"fmt"
	"math"

	"basketminer/itemset"
	"basketminer/rules"
)

// Difference describes one itemset or rule on which two runs disagree.
// A missing side is reported with a negative value.
type Difference struct {
	Kind  string  `json:"kind"`
	Key   string  `json:"key"`
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

func (d Difference) String() string {
	return fmt.Sprintf("%s %s: %v vs %v", d.Kind, d.Key, d.Left, d.Right)
}

const missing = -1

// Compare diffs the frequent itemsets (by support) and the rules (by
// confidence) of two runs. Values within tolerance are considered equal.
func Compare(left, right Result, tolerance float64) []Difference {
	diffs := make([]Difference, 0)

	leftSets := make(map[itemset.Key]float64)
	names := make(map[itemset.Key]string)
	order := make([]itemset.Itemset, 0)
	for _, e := range left.Itemsets {
		leftSets[e.Itemset.Key()] = e.Support
		names[e.Itemset.Key()] = e.Itemset.String()
		order = append(order, e.Itemset)
	}
	rightSets := make(map[itemset.Key]float64)
	for _, e := range right.Itemsets {
		rightSets[e.Itemset.Key()] = e.Support
		if _, ok := names[e.Itemset.Key()]; !ok {
			names[e.Itemset.Key()] = e.Itemset.String()
			order = append(order, e.Itemset)
		}
	}
	itemset.Sort(order)
	for _, s := range order {
		diffs = appendIfDifferent(diffs, "itemset", names[s.Key()], leftSets, rightSets, s.Key(), tolerance)
	}

	leftRules := ruleConfidences(left.Rules)
	rightRules := ruleConfidences(right.Rules)
	ruleKeys := make([]string, 0)
	for _, r := range left.Rules {
		ruleKeys = append(ruleKeys, r.String())
	}
	for _, r := range right.Rules {
		if _, ok := leftRules[r.String()]; !ok {
			ruleKeys = append(ruleKeys, r.String())
		}
	}
	for _, k := range ruleKeys {
		diffs = appendIfDifferent(diffs, "rule", k, leftRules, rightRules, k, tolerance)
	}
	return diffs
}

func ruleConfidences(rs []rules.Rule) map[string]float64 {
	m := make(map[string]float64, len(rs))
	for _, r := range rs {
		m[r.String()] = r.Confidence
	}
	return m
}

func appendIfDifferent[K comparable](diffs []Difference, kind, name string, left, right map[K]float64, k K, tolerance float64) []Difference {
	l, lok := left[k]
	r, rok := right[k]
	if !lok {
		l = missing
	}
	if !rok {
		r = missing
	}
	if lok && rok && math.Abs(l-r) <= tolerance {
		return diffs
	}
	return append(diffs, Difference{Kind: kind, Key: name, Left: l, Right: r})
}
