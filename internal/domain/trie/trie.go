// Package trie 实现带计数增强的字典树（多重集合），
// 在成员查询之外支持前缀计数、最长公共前缀以及字典序排名/选择/前驱/后继查询。
//
// 设计要点：
// - 每个节点维护 multiplicity（在此结束的字符串数）与 subtreeCount（子树内总数）；
// - 子节点按字节值升序保存，所有字典序算法依赖这一顺序；
// - 节点保存在 arena 中，以下标寻址；删除时子树为空的节点立即回收；
// - 空字符串不可存储，根节点的 multiplicity 恒为 0。
//
// Trie 不是并发安全的，调用方需要在外部串行化所有操作。
package trie

// NotFound 是 Erase 与 Rank 在字符串未存储时返回的哨兵值。
const NotFound = -1

// Trie 是一个带计数增强的字典树。零值不可用，请使用 New 创建。
type Trie struct {
	nodes    []node
	free     []nodeID
	distinct int
}

// New 创建一个新的字典树，并依次插入 words。
func New(words ...string) *Trie {
	t := &Trie{
		nodes: []node{{parent: nilID}},
	}
	for _, w := range words {
		t.Insert(w)
	}
	return t
}

// Insert 插入字符串 s，返回插入后 s 的个数。
// 空字符串不可存储，此时返回 0 且不做任何修改。
func (t *Trie) Insert(s string) int {
	if s == "" {
		return 0
	}
	id := rootID
	t.nodes[id].subtreeCount++
	for i := 0; i < len(s); i++ {
		id = t.child(id, s[i])
		t.nodes[id].subtreeCount++
	}
	n := &t.nodes[id]
	n.multiplicity++
	if n.multiplicity == 1 {
		t.distinct++
	}
	return n.multiplicity
}

// Erase 删除一个 s，返回删除后 s 的个数；s 未存储时返回 NotFound 且不做修改。
//
// 删除后从终点向根回溯：每个经过的节点 subtreeCount 减一，
// 非根节点减到 0 时立即从父节点摘除并回收，处理完根节点后停止。
func (t *Trie) Erase(s string) int {
	if s == "" {
		return NotFound
	}
	id := t.lookup(s)
	if id == nilID || t.nodes[id].multiplicity == 0 {
		return NotFound
	}
	t.nodes[id].multiplicity--
	ret := t.nodes[id].multiplicity
	if ret == 0 {
		t.distinct--
	}

	for {
		n := &t.nodes[id]
		n.subtreeCount--
		if id == rootID {
			break
		}
		parent := n.parent
		if n.subtreeCount == 0 {
			t.release(id)
		}
		id = parent
	}
	return ret
}

// Find 返回字符串 s 的个数，不存在时返回 0。
func (t *Trie) Find(s string) int {
	id := t.lookup(s)
	if id == nilID {
		return 0
	}
	return t.nodes[id].multiplicity
}

// PrefixCount 返回以 s 为前缀的字符串总数（计重复，含 s 自身）。
// PrefixCount("") 等于 Len()。
func (t *Trie) PrefixCount(s string) int {
	id := t.lookup(s)
	if id == nilID {
		return 0
	}
	return t.nodes[id].subtreeCount
}

// Len 返回存储的字符串总数（计重复）。
func (t *Trie) Len() int {
	return t.nodes[rootID].subtreeCount
}

// Distinct 返回不同字符串的个数。
func (t *Trie) Distinct() int {
	return t.distinct
}

// Nodes 返回当前存活的节点数（含根）。
func (t *Trie) Nodes() int {
	return len(t.nodes) - len(t.free)
}
