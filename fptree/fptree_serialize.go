package fptree

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// TreeNode is the persisted form of one node. Parent indexes into the
// serialized node list; the root is written first with Count -1.
type TreeNode struct {
	Item   string `json:"it"`
	Count  int    `json:"c"`
	Parent int    `json:"p"`
}

func makeTreeNode(t *Tree, n int, parent int) TreeNode {
	if n == rootNode {
		return TreeNode{Item: "", Count: -1, Parent: nilNode}
	}
	return TreeNode{Item: t.nodes[n].Item, Count: t.nodes[n].Counter, Parent: parent}
}

// Serialize lists the nodes breadth first, siblings ordered by item, one
// JSON document per node.
func (t *Tree) Serialize() ([]string, error) {
	nodeListString := make([]string, 0, len(t.nodes))
	nodeQueue := []int{rootNode}
	position := map[int]int{}
	for len(nodeQueue) > 0 {
		front := nodeQueue[0]
		nodeQueue = nodeQueue[1:]

		parent := nilNode
		if front != rootNode {
			parent = position[t.nodes[front].ParentNode]
		}
		position[front] = len(nodeListString)

		bytes, err := json.Marshal(makeTreeNode(t, front, parent))
		if err != nil {
			log.WithError(err).Errorf("unable to marshall node :%d", front)
			return nil, err
		}
		nodeListString = append(nodeListString, string(bytes))
		nodeQueue = append(nodeQueue, t.Children(front)...)
	}
	log.Debugf("Serialized nodes :%d", len(nodeListString))
	return nodeListString, nil
}

// WriteTree writes the serialized tree, one node per line.
func WriteTree(w io.Writer, t *Tree) error {
	nodes, err := t.Serialize()
	if err != nil {
		log.Error("Unable to serialize tree")
		return err
	}
	bw := bufio.NewWriter(w)
	for _, nd := range nodes {
		if _, err := bw.WriteString(fmt.Sprintf("%s\n", nd)); err != nil {
			log.WithFields(log.Fields{"line": nd, "err": err}).Error("Unable to write node.")
			return err
		}
	}
	return bw.Flush()
}

// ReadTree rebuilds a tree written by WriteTree. Header counts are the sums
// of the node counts per item; node-link chains follow the written order.
func ReadTree(r io.Reader) (*Tree, error) {
	scanner := bufio.NewScanner(r)
	handles := make([]int, 0)
	var t *Tree
	for lineNum := 0; scanner.Scan(); lineNum++ {
		var tn TreeNode
		if err := json.Unmarshal(scanner.Bytes(), &tn); err != nil {
			log.WithFields(log.Fields{"line": lineNum, "err": err}).Error("Read failed.")
			return nil, err
		}
		if lineNum == 0 {
			if tn.Parent != nilNode {
				return nil, fmt.Errorf("first node is not the root")
			}
			t = InitTree()
			handles = append(handles, rootNode)
			continue
		}
		if tn.Parent < 0 || tn.Parent >= len(handles) {
			return nil, fmt.Errorf("node %d refers to unknown parent %d", lineNum, tn.Parent)
		}
		parent := handles[tn.Parent]
		if _, exists := t.nodes[parent].NextMap[tn.Item]; exists {
			return nil, fmt.Errorf("node %d duplicates item %s under its parent", lineNum, tn.Item)
		}
		child := t.newNode(tn.Item, tn.Count, parent)
		t.nodes[parent].NextMap[tn.Item] = child
		t.linkHeader(tn.Item, child)
		t.CountMap[tn.Item] += tn.Count
		handles = append(handles, child)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("no nodes to read")
	}
	log.Debugf("Read tree nodes :%d", t.NodeCount())
	return t, nil
}
