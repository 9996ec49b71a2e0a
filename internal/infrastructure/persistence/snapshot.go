package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"lexirank/internal/domain/model"
)

// Snapshot 是快照文件的内容：按字典序排列的 (字符串, 个数) 列表。
type Snapshot struct {
	ID      string
	Name    string
	Version int64
	Entries []model.Entry
}

// Snapshotter 负责创建和加载索引快照。
type Snapshotter struct {
	filePath string
}

// NewSnapshotter 创建一个新的 Snapshotter。
func NewSnapshotter(filePath string) *Snapshotter {
	return &Snapshotter{filePath: filePath}
}

// Save 创建索引的快照。先写临时文件再重命名，避免留下半个快照。
func (s *Snapshotter) Save(idx *model.Index) error {
	stats := idx.Stats()
	snap := Snapshot{
		ID:      stats.ID,
		Name:    stats.Name,
		Version: stats.Version,
		Entries: idx.Entries(),
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Load 从快照文件中加载索引，通过回放插入重建字典树。
// 快照不存在时返回的错误满足 os.IsNotExist。
func (s *Snapshotter) Load() (*model.Index, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap Snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	idx := model.NewIndex(snap.ID, snap.Name)
	idx.Restore(snap.Entries)
	idx.Version = snap.Version
	return idx, nil
}
