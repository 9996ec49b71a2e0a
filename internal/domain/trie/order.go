package trie

// CountLess 返回字典序严格小于 s 的字符串个数（计重复），s 不必已存储。
//
// 沿 s 的路径下行，在每个节点累加自身的 multiplicity（s 的真前缀）
// 以及符号小于 s[i] 的兄弟子树的 subtreeCount。
func (t *Trie) CountLess(s string) int {
	ret := 0
	id := rootID
	for i := 0; i < len(s); i++ {
		n := &t.nodes[id]
		ret += n.multiplicity
		next := nilID
		for _, e := range n.children {
			if e.symbol >= s[i] {
				if e.symbol == s[i] {
					next = e.child
				}
				break
			}
			ret += t.nodes[e.child].subtreeCount
		}
		if next == nilID {
			return ret
		}
		id = next
	}
	return ret
}

// Rank 返回 s 第一次出现时在全体字符串中的字典序排名（从 1 开始，计重复）。
// s 未存储时返回 NotFound。
func (t *Trie) Rank(s string) int {
	if t.Find(s) == 0 {
		return NotFound
	}
	return t.CountLess(s) + 1
}

// Select 返回字典序第 n 个字符串（从 1 开始，计重复）。
// n 不在 [1, Len()] 内时返回 false。
func (t *Trie) Select(n int) (string, bool) {
	if n <= 0 || n > t.Len() {
		return "", false
	}
	var path []byte
	id := rootID
	passed := 0
	for {
		nd := &t.nodes[id]
		if n <= passed+nd.multiplicity {
			return string(path), true
		}
		passed += nd.multiplicity
		next := nilID
		for _, e := range nd.children {
			c := t.nodes[e.child].subtreeCount
			if passed+c < n {
				passed += c
				continue
			}
			path = append(path, e.symbol)
			next = e.child
			break
		}
		if next == nilID {
			// 计数不变式被破坏时才会到达这里
			return "", false
		}
		id = next
	}
}

// Next 返回字典序严格大于 s 的下一个字符串。
// s 未存储或 s 已是最大值时返回 false。
func (t *Trie) Next(s string) (string, bool) {
	m := t.Find(s)
	if m == 0 {
		return "", false
	}
	return t.Select(t.CountLess(s) + 1 + m)
}

// Prev 返回字典序严格小于 s 的前一个字符串。
// s 未存储或 s 已是最小值时返回 false。
func (t *Trie) Prev(s string) (string, bool) {
	if t.Find(s) == 0 {
		return "", false
	}
	return t.Select(t.CountLess(s))
}

// LCP 返回与 s 的公共前缀最长的已存储字符串；有多个时取字典序最小者。
// 字典树为空时返回 false。
func (t *Trie) LCP(s string) (string, bool) {
	if t.Len() == 0 {
		return "", false
	}
	id, k := t.walk(s)
	path := []byte(s[:k])
	for t.nodes[id].multiplicity == 0 {
		e := t.nodes[id].children[0]
		path = append(path, e.symbol)
		id = e.child
	}
	return string(path), true
}

// LCPLast 与 LCP 相同，但在公共前缀最长的字符串中取字典序最大者。
func (t *Trie) LCPLast(s string) (string, bool) {
	if t.Len() == 0 {
		return "", false
	}
	id, k := t.walk(s)
	path := []byte(s[:k])
	for {
		children := t.nodes[id].children
		if len(children) == 0 {
			return string(path), true
		}
		e := children[len(children)-1]
		path = append(path, e.symbol)
		id = e.child
	}
}
