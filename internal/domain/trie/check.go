package trie

import (
	"errors"
	"fmt"
)

// Check 校验所有节点的计数不变式与父子链接，返回发现的第一个问题。
func (t *Trie) Check() error {
	if len(t.nodes) == 0 {
		return errors.New("missing root")
	}
	if t.nodes[rootID].multiplicity != 0 {
		return errors.New("root multiplicity must be 0")
	}

	reached, distinct := 0, 0
	stack := []nodeID{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		reached++

		if n.multiplicity < 0 {
			return fmt.Errorf("node %d: negative multiplicity %d", id, n.multiplicity)
		}
		if n.multiplicity > 0 {
			distinct++
		}
		if id != rootID && n.subtreeCount <= 0 {
			return fmt.Errorf("node %d: empty subtree left unpruned", id)
		}

		sum := n.multiplicity
		for i, e := range n.children {
			if i > 0 && n.children[i-1].symbol >= e.symbol {
				return fmt.Errorf("node %d: children out of order at %d", id, i)
			}
			c := &t.nodes[e.child]
			if c.parent != id || c.symbol != e.symbol {
				return fmt.Errorf("node %d: broken link to child %d", id, e.child)
			}
			if c.depth != n.depth+1 {
				return fmt.Errorf("node %d: depth %d under parent depth %d", e.child, c.depth, n.depth)
			}
			sum += c.subtreeCount
			stack = append(stack, e.child)
		}
		if sum != n.subtreeCount {
			return fmt.Errorf("node %d: subtreeCount %d, want %d", id, n.subtreeCount, sum)
		}
	}

	if reached != t.Nodes() {
		return fmt.Errorf("reachable nodes %d, live nodes %d", reached, t.Nodes())
	}
	if distinct != t.distinct {
		return fmt.Errorf("distinct strings %d, tracked %d", distinct, t.distinct)
	}
	return nil
}
