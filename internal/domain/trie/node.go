package trie

import (
	"golang.org/x/exp/slices"
)

// nodeID 是节点在 arena 中的下标；父子关系只通过下标表达，不表示所有权。
type nodeID int32

const (
	rootID nodeID = 0
	nilID  nodeID = -1
)

// edge 是一条带符号的出边，children 按 symbol 升序保存。
type edge struct {
	symbol byte
	child  nodeID
}

// node 是字典树中的一个节点。
//
// 字段说明：
// - multiplicity：恰好在本节点结束的字符串个数（多重集合，允许重复）。
// - subtreeCount：子树中（含自身）结束的字符串总数。
// - depth：从根到本节点的路径长度，仅用于诊断输出。
type node struct {
	children     []edge
	parent       nodeID
	symbol       byte
	depth        int
	multiplicity int
	subtreeCount int
}

func edgeCmp(e edge, symbol byte) int {
	return int(e.symbol) - int(symbol)
}

// childIfExists 返回 id 在 symbol 上的子节点（不存在则返回 nilID，不创建）。
func (t *Trie) childIfExists(id nodeID, symbol byte) nodeID {
	edges := t.nodes[id].children
	if i, ok := slices.BinarySearchFunc(edges, symbol, edgeCmp); ok {
		return edges[i].child
	}
	return nilID
}

// child 返回（并在必要时创建）id 在 symbol 上的子节点。
func (t *Trie) child(id nodeID, symbol byte) nodeID {
	i, ok := slices.BinarySearchFunc(t.nodes[id].children, symbol, edgeCmp)
	if ok {
		return t.nodes[id].children[i].child
	}
	c := t.alloc(id, symbol)
	// alloc 可能扩容 t.nodes，必须在其之后重新取父节点
	p := &t.nodes[id]
	p.children = slices.Insert(p.children, i, edge{symbol: symbol, child: c})
	return c
}

// alloc 分配一个计数为 0 的新节点，优先复用空闲槽位。
func (t *Trie) alloc(parent nodeID, symbol byte) nodeID {
	n := node{
		parent: parent,
		symbol: symbol,
		depth:  t.nodes[parent].depth + 1,
	}
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return nodeID(len(t.nodes) - 1)
}

// release 将 id 从父节点的出边中摘除，并把槽位归还空闲链表。
// 调用方保证 id 不是根且子树已为空。
func (t *Trie) release(id nodeID) {
	n := &t.nodes[id]
	p := &t.nodes[n.parent]
	if i, ok := slices.BinarySearchFunc(p.children, n.symbol, edgeCmp); ok {
		p.children = slices.Delete(p.children, i, i+1)
	}
	*n = node{parent: nilID}
	t.free = append(t.free, id)
}

// walk 沿 s 的边逐层访问，返回能到达的最深节点与已消费的字节数。
func (t *Trie) walk(s string) (nodeID, int) {
	id := rootID
	for i := 0; i < len(s); i++ {
		next := t.childIfExists(id, s[i])
		if next == nilID {
			return id, i
		}
		id = next
	}
	return id, len(s)
}

// lookup 返回 s 的终点节点；路径不完整时返回 nilID。
func (t *Trie) lookup(s string) nodeID {
	id, n := t.walk(s)
	if n != len(s) {
		return nilID
	}
	return id
}
