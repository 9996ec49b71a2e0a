package trie

import "iter"

// NodeInfo 是诊断遍历中单个节点的只读快照。
type NodeInfo struct {
	Depth        int    `json:"depth"`
	Symbol       byte   `json:"symbol"`
	Path         string `json:"path"`
	Multiplicity int    `json:"multiplicity"`
	SubtreeCount int    `json:"subtree_count"`
}

// Entries 按字典序遍历以 prefix 为前缀的不同字符串及其个数。
// 遍历期间不得修改字典树。
func (t *Trie) Entries(prefix string) iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		t.preorder(prefix, func(id nodeID, path []byte) bool {
			n := &t.nodes[id]
			if n.multiplicity == 0 {
				return true
			}
			return yield(string(path), n.multiplicity)
		})
	}
}

// Dump 以先序遍历输出每个节点的 (深度, 符号, multiplicity, subtreeCount)，仅用于调试。
// 返回的序列可重复遍历；遍历期间不得修改字典树。
func (t *Trie) Dump() iter.Seq[NodeInfo] {
	return func(yield func(NodeInfo) bool) {
		t.preorder("", func(id nodeID, path []byte) bool {
			n := &t.nodes[id]
			return yield(NodeInfo{
				Depth:        n.depth,
				Symbol:       n.symbol,
				Path:         string(path),
				Multiplicity: n.multiplicity,
				SubtreeCount: n.subtreeCount,
			})
		})
	}
}

// preorder 从 prefix 对应的节点开始做先序遍历，子节点按符号升序访问，
// 因而访问顺序即字典序。visit 返回 false 时终止遍历。
func (t *Trie) preorder(prefix string, visit func(id nodeID, path []byte) bool) {
	start := t.lookup(prefix)
	if start == nilID {
		return
	}
	path := []byte(prefix)
	stack := []nodeID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if id != start {
			path = append(path[:n.depth-1], n.symbol)
		}
		if !visit(id, path) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i].child)
		}
	}
}
