package util

import (
	"sort"
)

type Pair struct {
	Key   string
	Value int
}

type PairList []Pair

func (p PairList) Len() int { return len(p) }
func (p PairList) Less(i, j int) bool {
	if p[i].Value != p[j].Value {
		return p[i].Value < p[j].Value
	}
	return p[i].Key > p[j].Key
}
func (p PairList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

// RankByCount orders keys by descending count, ties by ascending key.
func RankByCount(counts map[string]int) PairList {
	pl := make(PairList, 0, len(counts))
	for k, v := range counts {
		pl = append(pl, Pair{k, v})
	}
	sort.Sort(sort.Reverse(pl))
	return pl
}

// SortOnPriority orders ll by the counts in pq, highest first unless
// ascending is set. Ties are always broken by ascending key.
func SortOnPriority(ll []string, pq map[string]int, ascending bool) []string {
	sort.Slice(ll, func(i, j int) bool {
		ci, cj := pq[ll[i]], pq[ll[j]]
		if ci != cj {
			if ascending {
				return ci < cj
			}
			return ci > cj
		}
		return ll[i] < ll[j]
	})
	return ll
}

// SortOnPriorityTable returns the keys of pq ordered as SortOnPriority does.
func SortOnPriorityTable(pq map[string]int, ascending bool) []string {
	keys := make([]string, 0, len(pq))
	for k := range pq {
		keys = append(keys, k)
	}
	return SortOnPriority(keys, pq, ascending)
}

// MakeUniqueTrans drops repeated entries, keeping first occurrences in order.
func MakeUniqueTrans(trns []string) []string {
	trnsMap := make(map[string]bool, len(trns))
	trnsSet := make([]string, 0, len(trns))
	for _, tr := range trns {
		if trnsMap[tr] {
			continue
		}
		trnsMap[tr] = true
		trnsSet = append(trnsSet, tr)
	}
	return trnsSet
}
