package fptree

import (
	"sort"

	"basketminer/itemset"
	"basketminer/support"
	U "basketminer/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	nilNode  = -1
	rootNode = 0
)

// node lives in the tree arena and is addressed by its index. Children are
// the only ownership edges; parent and auxNode are plain back references.
type node struct {
	Item       string
	Counter    int
	ParentNode int
	NextMap    map[string]int
	// AuxNode links to the next node carrying the same item.
	AuxNode int
}

// Tree is an FP-tree together with its header table. HeadMap and TailMap
// point at the first and last node of each item's node-link chain.
type Tree struct {
	nodes    []node
	CountMap map[string]int
	HeadMap  map[string]int
	TailMap  map[string]int
}

type HeaderEntry struct {
	Item  string
	Count int
	Head  int
}

func InitTree() *Tree {
	t := &Tree{
		CountMap: make(map[string]int),
		HeadMap:  make(map[string]int),
		TailMap:  make(map[string]int),
	}
	t.nodes = append(t.nodes, node{ParentNode: nilNode, NextMap: make(map[string]int), AuxNode: nilNode})
	return t
}

// Build constructs the tree for a weighted transaction multiset. Items whose
// weighted count relative to total misses minSupport are dropped up front.
// A nil tree is returned when no item survives.
func Build(trns *itemset.Weighted, minSupport float64, total int) *Tree {
	counts := make(map[string]int)
	entries := trns.Entries()
	for _, e := range entries {
		for _, it := range e.Itemset.Items() {
			counts[it] += e.Weight
		}
	}
	for it, c := range counts {
		if !support.Meets(c, total, minSupport) {
			delete(counts, it)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	t := InitTree()
	for it, c := range counts {
		t.CountMap[it] = c
	}
	for _, e := range entries {
		t.OrderAndInsertTrans(e.Itemset, e.Weight)
	}
	log.WithFields(log.Fields{
		"items": len(t.CountMap),
		"nodes": t.NodeCount(),
	}).Debug("Built fp tree.")
	return t
}

// OrderAndInsertTrans keeps the frequent items of tr, orders them by
// descending count with ties broken by item, and inserts the path.
func (t *Tree) OrderAndInsertTrans(tr itemset.Itemset, weight int) {
	ordered := make([]string, 0, tr.Len())
	for i := 0; i < tr.Len(); i++ {
		if _, ok := t.CountMap[tr.Item(i)]; ok {
			ordered = append(ordered, tr.Item(i))
		}
	}
	if len(ordered) == 0 {
		return
	}
	t.insert(U.SortOnPriority(ordered, t.CountMap, false), weight)
}

func (t *Tree) insert(items []string, weight int) {
	current := rootNode
	for _, it := range items {
		if child, ok := t.nodes[current].NextMap[it]; ok {
			t.nodes[child].Counter += weight
			current = child
			continue
		}
		child := t.newNode(it, weight, current)
		t.nodes[current].NextMap[it] = child
		t.linkHeader(it, child)
		current = child
	}
}

func (t *Tree) newNode(item string, count, parent int) int {
	t.nodes = append(t.nodes, node{
		Item:       item,
		Counter:    count,
		ParentNode: parent,
		NextMap:    make(map[string]int),
		AuxNode:    nilNode,
	})
	return len(t.nodes) - 1
}

// linkHeader appends n to the end of its item's node-link chain.
func (t *Tree) linkHeader(item string, n int) {
	if _, ok := t.HeadMap[item]; !ok {
		t.HeadMap[item] = n
		t.TailMap[item] = n
		return
	}
	tail := t.TailMap[item]
	t.nodes[tail].AuxNode = n
	t.TailMap[item] = n
}

// NodeCount excludes the root sentinel.
func (t *Tree) NodeCount() int {
	return len(t.nodes) - 1
}

// Items lists header items by ascending count, ties by item.
func (t *Tree) Items() []string {
	return U.SortOnPriorityTable(t.CountMap, true)
}

// Header returns the header table in Items order.
func (t *Tree) Header() []HeaderEntry {
	header := make([]HeaderEntry, 0, len(t.CountMap))
	for _, it := range t.Items() {
		header = append(header, HeaderEntry{Item: it, Count: t.CountMap[it], Head: t.HeadMap[it]})
	}
	return header
}

// Chain walks the node-link chain of item.
func (t *Tree) Chain(item string) []int {
	chain := make([]int, 0)
	head, ok := t.HeadMap[item]
	if !ok {
		return chain
	}
	for n := head; n != nilNode; n = t.nodes[n].AuxNode {
		chain = append(chain, n)
	}
	return chain
}

// NodeItem and NodeCounter expose a node by handle.
func (t *Tree) NodeItem(n int) string {
	return t.nodes[n].Item
}

func (t *Tree) NodeCounter(n int) int {
	return t.nodes[n].Counter
}

func (t *Tree) NodeParent(n int) int {
	return t.nodes[n].ParentNode
}

// Children returns the handles below n ordered by item.
func (t *Tree) Children(n int) []int {
	items := make([]string, 0, len(t.nodes[n].NextMap))
	for it := range t.nodes[n].NextMap {
		items = append(items, it)
	}
	sort.Strings(items)
	children := make([]int, 0, len(items))
	for _, it := range items {
		children = append(children, t.nodes[n].NextMap[it])
	}
	return children
}

// Transactions recovers the weighted transactions stored in the tree. A
// node whose counter exceeds the sum of its children ends that many
// transactions, each holding the items on the path from the root.
func (t *Tree) Transactions() (*itemset.Weighted, error) {
	trns := itemset.NewWeighted()
	for n := rootNode + 1; n < len(t.nodes); n++ {
		own := t.nodes[n].Counter
		for _, child := range t.nodes[n].NextMap {
			own -= t.nodes[child].Counter
		}
		if t.nodes[n].Counter <= 0 || own < 0 {
			return nil, errors.Wrapf(ErrMalformedTree, "node %d item %s count %d",
				n, t.nodes[n].Item, t.nodes[n].Counter)
		}
		if own == 0 {
			continue
		}
		path := make([]string, 0)
		t.ascendFpTree(n, &path)
		trns.Add(itemset.New(path...), own)
	}
	return trns, nil
}
