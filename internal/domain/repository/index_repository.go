package repository

import "lexirank/internal/domain/model"

// IndexRepository 定义了索引的存储接口。
type IndexRepository interface {
	// Load 加载索引：先恢复快照，再回放增量日志。
	Load(id, name string) (*model.Index, error)
	// Save 保存索引快照，成功后增量日志被清空。
	Save(idx *model.Index) error
	// LogInsert 与 LogErase 记录修改后索引的版本号，回放时跳过快照已包含的记录。
	LogInsert(version int64, word string) error
	LogErase(version int64, word string) error
	Close() error
}
