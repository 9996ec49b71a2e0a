package persistence

import (
	"lexirank/internal/domain/model"
	"lexirank/internal/domain/repository"
)

// memoryRepository 内存仓储实现，不落盘，用于关闭持久化的部署与测试。
type memoryRepository struct{}

// NewMemoryRepository 创建内存仓储
func NewMemoryRepository() repository.IndexRepository {
	return memoryRepository{}
}

func (memoryRepository) Load(id, name string) (*model.Index, error) {
	return model.NewIndex(id, name), nil
}

func (memoryRepository) Save(*model.Index) error        { return nil }
func (memoryRepository) LogInsert(int64, string) error { return nil }
func (memoryRepository) LogErase(int64, string) error  { return nil }
func (memoryRepository) Close() error                  { return nil }
