package model

import "time"

// Entry 表示一个不同字符串及其个数，按字典序排列时即为索引的导出格式。
type Entry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RankedEntry 表示某个排名位置上的字符串。
type RankedEntry struct {
	Rank int    `json:"rank"`
	Word string `json:"word"`
}

// Stats 是索引的统计信息。
type Stats struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Total     int       `json:"total"`
	Distinct  int       `json:"distinct"`
	Nodes     int       `json:"nodes"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 变更事件类型
const (
	OpInsert = "insert"
	OpErase  = "erase"
)

// Event 描述一次索引变更，Count 为变更后该字符串的个数。
type Event struct {
	Op      string `json:"op"`
	Word    string `json:"word"`
	Count   int    `json:"count"`
	Version int64  `json:"version"`
}
