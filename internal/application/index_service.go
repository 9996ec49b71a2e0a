package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"lexirank/internal/domain/model"
	"lexirank/internal/domain/repository"
	"lexirank/internal/domain/trie"
	"lexirank/internal/infrastructure/watch"
)

// ErrInvalidWord 表示字符串为空或超过长度上限。
var ErrInvalidWord = errors.New("invalid word")

// IndexService 定义了字符串索引应用服务。
type IndexService interface {
	Insert(word string) (int, error)
	Erase(word string) (int, error)
	Count(word string) int
	PrefixCount(prefix string) int
	LCP(word string, last bool) (string, error)
	Rank(word string) (int, error)
	Select(n int) (string, error)
	Next(word string) (string, error)
	Prev(word string) (string, error)
	Complete(prefix string, limit int) []model.Entry
	Nearby(word string, count int) ([]model.RankedEntry, error)
	Page(start, count int) []model.RankedEntry
	Nodes() []trie.NodeInfo
	Stats() model.Stats
	Watch(id, pattern string, handler watch.Handler[model.Event]) error
	Unwatch(id string)
	Snapshot() error
	RunSnapshotLoop(ctx context.Context, interval time.Duration)
	Close() error
}

// indexServiceImpl 是 IndexService 的实现。
type indexServiceImpl struct {
	index         *model.Index
	indexRepo     repository.IndexRepository
	maxWordLength int
	events        *watch.Hub[model.Event]

	// persistMu 保证“修改 + 写日志”与“快照 + 清空日志”互斥，
	// 否则快照之后、清空之前写入的日志会丢失。
	persistMu sync.Mutex
}

// NewIndexService 创建一个新的 IndexService。
func NewIndexService(index *model.Index, repo repository.IndexRepository, maxWordLength int) (IndexService, error) {
	if index == nil || repo == nil {
		return nil, errors.New("index and repository are required")
	}
	return &indexServiceImpl{
		index:         index,
		indexRepo:     repo,
		maxWordLength: maxWordLength,
		events:        watch.NewHub[model.Event](),
	}, nil
}

func (s *indexServiceImpl) validate(word string) error {
	if word == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWord)
	}
	if s.maxWordLength > 0 && len(word) > s.maxWordLength {
		return fmt.Errorf("%w: %d bytes exceeds limit %d", ErrInvalidWord, len(word), s.maxWordLength)
	}
	return nil
}

// Insert 插入字符串并记录日志。
func (s *indexServiceImpl) Insert(word string) (int, error) {
	if err := s.validate(word); err != nil {
		return 0, err
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	n := s.index.Insert(word)
	version := s.index.Stats().Version
	s.publish(model.OpInsert, word, n, version)
	if err := s.indexRepo.LogInsert(version, word); err != nil {
		return n, fmt.Errorf("log insert: %w", err)
	}
	return n, nil
}

// Erase 删除字符串并记录日志。
func (s *indexServiceImpl) Erase(word string) (int, error) {
	if err := s.validate(word); err != nil {
		return 0, err
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	n, err := s.index.Erase(word)
	if err != nil {
		return 0, err
	}
	version := s.index.Stats().Version
	s.publish(model.OpErase, word, n, version)
	if err := s.indexRepo.LogErase(version, word); err != nil {
		return n, fmt.Errorf("log erase: %w", err)
	}
	return n, nil
}

// Count 返回字符串的个数。
func (s *indexServiceImpl) Count(word string) int {
	return s.index.Count(word)
}

// PrefixCount 返回以 prefix 为前缀的字符串个数。
func (s *indexServiceImpl) PrefixCount(prefix string) int {
	return s.index.PrefixCount(prefix)
}

// LCP 返回与 word 公共前缀最长的字符串。
func (s *indexServiceImpl) LCP(word string, last bool) (string, error) {
	return s.index.LCP(word, last)
}

// Rank 返回字符串的排名。
func (s *indexServiceImpl) Rank(word string) (int, error) {
	return s.index.Rank(word)
}

// Select 返回排名第 n 的字符串。
func (s *indexServiceImpl) Select(n int) (string, error) {
	return s.index.Select(n)
}

// Next 返回下一个字符串。
func (s *indexServiceImpl) Next(word string) (string, error) {
	return s.index.Next(word)
}

// Prev 返回上一个字符串。
func (s *indexServiceImpl) Prev(word string) (string, error) {
	return s.index.Prev(word)
}

// Complete 返回前缀补全结果。
func (s *indexServiceImpl) Complete(prefix string, limit int) []model.Entry {
	return s.index.Complete(prefix, limit)
}

// Nearby 返回临近排名。
func (s *indexServiceImpl) Nearby(word string, count int) ([]model.RankedEntry, error) {
	return s.index.Nearby(word, count)
}

// Page 返回一段排名。
func (s *indexServiceImpl) Page(start, count int) []model.RankedEntry {
	return s.index.Page(start, count)
}

// Nodes 返回诊断遍历结果。
func (s *indexServiceImpl) Nodes() []trie.NodeInfo {
	return s.index.Nodes()
}

// Stats 返回统计信息。
func (s *indexServiceImpl) Stats() model.Stats {
	return s.index.Stats()
}

// publish 通知订阅了 word 前缀的观察者。调用方持有 persistMu，事件按修改顺序送达。
func (s *indexServiceImpl) publish(op, word string, count int, version int64) {
	ev := model.Event{Op: op, Word: word, Count: count, Version: version}
	s.events.Publish(word, ev)
}

// Watch 订阅变更事件，pattern 为精确字符串或以 '*' 结尾的前缀。
func (s *indexServiceImpl) Watch(id, pattern string, handler watch.Handler[model.Event]) error {
	if err := s.events.Subscribe(id, pattern, handler); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWord, err)
	}
	return nil
}

// Unwatch 取消订阅者的全部订阅。
func (s *indexServiceImpl) Unwatch(id string) {
	s.events.UnsubscribeAll(id)
}

// Snapshot 保存快照并清空增量日志。
func (s *indexServiceImpl) Snapshot() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.indexRepo.Save(s.index); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// RunSnapshotLoop 按 interval 周期保存快照，直到 ctx 取消。interval <= 0 时立即返回。
func (s *indexServiceImpl) RunSnapshotLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastVersion int64 = -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			version := s.index.Stats().Version
			if version == lastVersion {
				continue
			}
			if err := s.Snapshot(); err != nil {
				log.Printf("snapshot failed: %v", err)
				continue
			}
			lastVersion = version
			log.Printf("snapshot saved at version %d", version)
		}
	}
}

// Close 保存最后一次快照并关闭存储库。
func (s *indexServiceImpl) Close() error {
	snapErr := s.Snapshot()
	closeErr := s.indexRepo.Close()
	return errors.Join(snapErr, closeErr)
}
