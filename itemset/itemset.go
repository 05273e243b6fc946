package itemset

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Key is the canonical form of an Itemset, usable as a map key.
// Every item is length prefixed so items containing separators never collide.
type Key string

// Itemset is an immutable, duplicate free collection of items kept in
// ascending order.
type Itemset struct {
	items []string
	key   Key
}

// New builds an itemset from items in any order, dropping duplicates.
func New(items ...string) Itemset {
	sorted := make([]string, len(items))
	copy(sorted, items)
	slices.Sort(sorted)
	return fromSorted(slices.Compact(sorted))
}

// fromSorted takes ownership of an already sorted, duplicate free slice.
func fromSorted(items []string) Itemset {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(strconv.Itoa(len(it)))
		b.WriteByte(':')
		b.WriteString(it)
	}
	return Itemset{items: items, key: Key(b.String())}
}

func (s Itemset) Len() int {
	return len(s.items)
}

func (s Itemset) IsEmpty() bool {
	return len(s.items) == 0
}

func (s Itemset) Key() Key {
	return s.key
}

// Items returns a copy of the members in ascending order.
func (s Itemset) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the i-th member in ascending order.
func (s Itemset) Item(i int) string {
	return s.items[i]
}

func (s Itemset) Equal(o Itemset) bool {
	return s.key == o.key
}

func (s Itemset) Contains(item string) bool {
	_, found := slices.BinarySearch(s.items, item)
	return found
}

// IsSubsetOf reports whether every member of s is a member of o.
func (s Itemset) IsSubsetOf(o Itemset) bool {
	if len(s.items) > len(o.items) {
		return false
	}
	j := 0
	for _, it := range s.items {
		for j < len(o.items) && o.items[j] < it {
			j++
		}
		if j == len(o.items) || o.items[j] != it {
			return false
		}
		j++
	}
	return true
}

func (s Itemset) Union(o Itemset) Itemset {
	out := make([]string, 0, len(s.items)+len(o.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(o.items) {
		switch {
		case s.items[i] < o.items[j]:
			out = append(out, s.items[i])
			i++
		case s.items[i] > o.items[j]:
			out = append(out, o.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, o.items[j:]...)
	return fromSorted(out)
}

// Difference returns the members of s that are not in o.
func (s Itemset) Difference(o Itemset) Itemset {
	out := make([]string, 0, len(s.items))
	j := 0
	for _, it := range s.items {
		for j < len(o.items) && o.items[j] < it {
			j++
		}
		if j < len(o.items) && o.items[j] == it {
			continue
		}
		out = append(out, it)
	}
	return fromSorted(out)
}

// With returns s plus a single item.
func (s Itemset) With(item string) Itemset {
	return s.Union(fromSorted([]string{item}))
}

// SharesPrefix reports whether the first n sorted members of s and o match.
// Both itemsets need at least n members.
func (s Itemset) SharesPrefix(o Itemset, n int) bool {
	if n > len(s.items) || n > len(o.items) {
		return false
	}
	for i := 0; i < n; i++ {
		if s.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// Subsets enumerates every sub-itemset with exactly size members, in
// lexical order of the member positions.
func (s Itemset) Subsets(size int) []Itemset {
	n := len(s.items)
	if size <= 0 || size > n {
		return nil
	}
	subsets := make([]Itemset, 0)
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		members := make([]string, size)
		for i, p := range idx {
			members[i] = s.items[p]
		}
		subsets = append(subsets, fromSorted(members))

		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			return subsets
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func (s Itemset) String() string {
	return "{" + strings.Join(s.items, ", ") + "}"
}

// Less orders itemsets by size and then lexically by members.
func Less(a, b Itemset) bool {
	if len(a.items) != len(b.items) {
		return len(a.items) < len(b.items)
	}
	for i := range a.items {
		if a.items[i] != b.items[i] {
			return a.items[i] < b.items[i]
		}
	}
	return false
}

// Sort orders itemsets in place using Less.
func Sort(sets []Itemset) {
	sort.Slice(sets, func(i, j int) bool { return Less(sets[i], sets[j]) })
}

func (s Itemset) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s.items)
}

func (s *Itemset) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = New(items...)
	return nil
}
