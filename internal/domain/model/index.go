package model

import (
	"errors"
	"sync"
	"time"

	"lexirank/internal/domain/trie"
)

var (
	ErrWordNotFound = errors.New("word not found")
	ErrOutOfRange   = errors.New("ordinal out of range")
	ErrNoNeighbor   = errors.New("no neighbor in that direction")
	ErrEmptyIndex   = errors.New("index is empty")
)

// Index 是字符串索引的聚合根。
// 所有操作经由读写锁串行化：修改独占，查询共享。
type Index struct {
	ID        string
	Name      string
	Version   int64
	UpdatedAt time.Time
	tr        *trie.Trie
	mu        sync.RWMutex
}

// NewIndex 创建一个新的空索引。
func NewIndex(id, name string) *Index {
	return &Index{
		ID:        id,
		Name:      name,
		UpdatedAt: time.Now(),
		tr:        trie.New(),
	}
}

// Insert 插入一个字符串，返回插入后的个数。
func (idx *Index) Insert(word string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := idx.tr.Insert(word)
	if n > 0 {
		idx.touch()
	}
	return n
}

// Erase 删除一个字符串，返回删除后的个数。
func (idx *Index) Erase(word string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := idx.tr.Erase(word)
	if n == trie.NotFound {
		return 0, ErrWordNotFound
	}
	idx.touch()
	return n, nil
}

// Restore 按导出格式回放插入，用于从快照重建。
func (idx *Index) Restore(entries []Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			idx.tr.Insert(e.Word)
		}
	}
	idx.UpdatedAt = time.Now()
}

func (idx *Index) touch() {
	idx.Version++
	idx.UpdatedAt = time.Now()
}

// Count 返回字符串的个数。
func (idx *Index) Count(word string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tr.Find(word)
}

// PrefixCount 返回以 prefix 为前缀的字符串个数。
func (idx *Index) PrefixCount(prefix string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tr.PrefixCount(prefix)
}

// LCP 返回与 word 公共前缀最长的字符串；last 为 true 时取字典序最大者。
func (idx *Index) LCP(word string, last bool) (string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var (
		s  string
		ok bool
	)
	if last {
		s, ok = idx.tr.LCPLast(word)
	} else {
		s, ok = idx.tr.LCP(word)
	}
	if !ok {
		return "", ErrEmptyIndex
	}
	return s, nil
}

// Rank 返回字符串的字典序排名。
func (idx *Index) Rank(word string) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	r := idx.tr.Rank(word)
	if r == trie.NotFound {
		return 0, ErrWordNotFound
	}
	return r, nil
}

// Select 返回排名第 n 的字符串。
func (idx *Index) Select(n int) (string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s, ok := idx.tr.Select(n)
	if !ok {
		return "", ErrOutOfRange
	}
	return s, nil
}

// Next 返回字典序的下一个字符串。
func (idx *Index) Next(word string) (string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.tr.Find(word) == 0 {
		return "", ErrWordNotFound
	}
	s, ok := idx.tr.Next(word)
	if !ok {
		return "", ErrNoNeighbor
	}
	return s, nil
}

// Prev 返回字典序的前一个字符串。
func (idx *Index) Prev(word string) (string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.tr.Find(word) == 0 {
		return "", ErrWordNotFound
	}
	s, ok := idx.tr.Prev(word)
	if !ok {
		return "", ErrNoNeighbor
	}
	return s, nil
}

// Complete 返回以 prefix 为前缀的前 limit 个不同字符串（按字典序）。
func (idx *Index) Complete(prefix string, limit int) []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := make([]Entry, 0, limit)
	if limit <= 0 {
		return entries
	}
	for w, c := range idx.tr.Entries(prefix) {
		entries = append(entries, Entry{Word: w, Count: c})
		if len(entries) == limit {
			break
		}
	}
	return entries
}

// Page 返回排名 start 起的 count 个位置（重复字符串占据连续的位置）。
func (idx *Index) Page(start, count int) []RankedEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.page(start, count)
}

// Nearby 返回以 word 的排名为中心、共 count 个位置的窗口。
func (idx *Index) Nearby(word string, count int) ([]RankedEntry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rank := idx.tr.Rank(word)
	if rank == trie.NotFound {
		return nil, ErrWordNotFound
	}
	start := rank - count/2
	if start < 1 {
		start = 1
	}
	return idx.page(start, count), nil
}

func (idx *Index) page(start, count int) []RankedEntry {
	if start < 1 {
		start = 1
	}
	end := min(start+count-1, idx.tr.Len())
	if count <= 0 || start > end {
		return []RankedEntry{}
	}

	result := make([]RankedEntry, 0, end-start+1)
	word, _ := idx.tr.Select(start)
	rank := start
	for rank <= end {
		// 同一字符串的所有副本占据连续排名，无需重复 Select
		copies := idx.tr.Find(word) - (rank - idx.tr.CountLess(word) - 1)
		for ; copies > 0 && rank <= end; copies-- {
			result = append(result, RankedEntry{Rank: rank, Word: word})
			rank++
		}
		if rank > end {
			break
		}
		next, ok := idx.tr.Next(word)
		if !ok {
			break
		}
		word = next
	}
	return result
}

// Entries 按字典序导出全部不同字符串及其个数。
func (idx *Index) Entries() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := make([]Entry, 0, idx.tr.Distinct())
	for w, c := range idx.tr.Entries("") {
		entries = append(entries, Entry{Word: w, Count: c})
	}
	return entries
}

// Nodes 返回字典树的诊断遍历结果。
func (idx *Index) Nodes() []trie.NodeInfo {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	nodes := make([]trie.NodeInfo, 0, idx.tr.Nodes())
	for info := range idx.tr.Dump() {
		nodes = append(nodes, info)
	}
	return nodes
}

// Stats 返回索引的统计信息。
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return Stats{
		ID:        idx.ID,
		Name:      idx.Name,
		Total:     idx.tr.Len(),
		Distinct:  idx.tr.Distinct(),
		Nodes:     idx.tr.Nodes(),
		Version:   idx.Version,
		UpdatedAt: idx.UpdatedAt,
	}
}

// Check 校验底层字典树的不变式。
func (idx *Index) Check() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tr.Check()
}
