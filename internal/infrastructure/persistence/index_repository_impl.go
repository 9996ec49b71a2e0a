package persistence

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"lexirank/internal/domain/model"
	"lexirank/internal/domain/repository"
)

const (
	snapshotFile = "snapshot.gob"
	aofFile      = "aof.log"
)

// indexRepositoryImpl 是基于快照 + AOF 的 IndexRepository 实现。
type indexRepositoryImpl struct {
	snapshotter *Snapshotter
	aofLogger   *AOFLogger
}

// NewIndexRepository 在 dataDir 下创建文件存储库，并加载索引。
func NewIndexRepository(dataDir, id, name string) (*model.Index, repository.IndexRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}

	aofLogger, err := NewAOFLogger(filepath.Join(dataDir, aofFile))
	if err != nil {
		return nil, nil, err
	}

	repo := &indexRepositoryImpl{
		snapshotter: NewSnapshotter(filepath.Join(dataDir, snapshotFile)),
		aofLogger:   aofLogger,
	}

	idx, err := repo.Load(id, name)
	if err != nil {
		aofLogger.Close()
		return nil, nil, err
	}
	return idx, repo, nil
}

// Load 加载索引。快照不存在时从空索引开始，然后回放 AOF 中快照之后的记录。
func (r *indexRepositoryImpl) Load(id, name string) (*model.Index, error) {
	idx, err := r.snapshotter.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		idx = model.NewIndex(id, name)
	}

	applied, err := r.aofLogger.Replay(idx, idx.Version)
	if err != nil {
		return nil, fmt.Errorf("replay aof: %w", err)
	}
	if applied > 0 {
		log.Printf("persistence: replayed %d aof records", applied)
	}
	return idx, nil
}

// Save 保存索引快照并清空 AOF。清空失败或未执行时，残留记录在下次加载时按版本号跳过。
func (r *indexRepositoryImpl) Save(idx *model.Index) error {
	if err := r.snapshotter.Save(idx); err != nil {
		return err
	}
	return r.aofLogger.Truncate()
}

// LogInsert 记录插入。
func (r *indexRepositoryImpl) LogInsert(version int64, word string) error {
	return r.aofLogger.LogInsert(version, word)
}

// LogErase 记录删除。
func (r *indexRepositoryImpl) LogErase(version int64, word string) error {
	return r.aofLogger.LogErase(version, word)
}

// Close 关闭 AOF 文件。
func (r *indexRepositoryImpl) Close() error {
	return r.aofLogger.Close()
}
