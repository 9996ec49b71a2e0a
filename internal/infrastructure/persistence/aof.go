package persistence

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"lexirank/internal/domain/model"
)

// AOFLogger 负责记录和回放索引的修改操作。
// 每行一条记录：`<version> insert "<word>"` 或 `<version> erase "<word>"`，
// version 为修改后的索引版本号，word 经 strconv.Quote 转义。
type AOFLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewAOFLogger 创建一个新的 AOFLogger。
func NewAOFLogger(filePath string) (*AOFLogger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &AOFLogger{file: file}, nil
}

// LogInsert 记录一次插入操作。
func (l *AOFLogger) LogInsert(version int64, word string) error {
	return l.append(version, model.OpInsert, word)
}

// LogErase 记录一次删除操作。
func (l *AOFLogger) LogErase(version int64, word string) error {
	return l.append(version, model.OpErase, word)
}

func (l *AOFLogger) append(version int64, op, word string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := fmt.Fprintf(l.file, "%d %s %s\n", version, op, strconv.Quote(word))
	return err
}

// parseRecord 解析一行记录。
func parseRecord(line string) (version int64, op, word string, err error) {
	v, rest, ok := strings.Cut(line, " ")
	if !ok {
		return 0, "", "", fmt.Errorf("missing version")
	}
	if version, err = strconv.ParseInt(v, 10, 64); err != nil {
		return 0, "", "", fmt.Errorf("bad version: %w", err)
	}
	op, quoted, ok := strings.Cut(rest, " ")
	if !ok {
		return 0, "", "", fmt.Errorf("missing word")
	}
	if word, err = strconv.Unquote(quoted); err != nil {
		return 0, "", "", fmt.Errorf("bad word: %w", err)
	}
	return version, op, word, nil
}

// Replay 回放 AOF 日志中版本号大于 after 的记录，在 idx 上重建修改。
// 版本号不大于 after 的记录已包含在快照中，重复回放会使插入计数翻倍。
// 返回回放的记录数。
func (l *AOFLogger) Replay(idx *model.Index, after int64) (int, error) {
	file, err := os.Open(l.file.Name())
	if err != nil {
		return 0, err
	}
	defer file.Close()

	applied := 0
	last := after
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		version, op, word, err := parseRecord(text)
		if err != nil {
			log.Printf("aof: skip malformed line %d: %v", line, err)
			continue
		}
		if version <= after {
			continue
		}

		switch op {
		case model.OpInsert:
			if idx.Insert(word) == 0 {
				log.Printf("aof: line %d insert %q: empty word", line, word)
				continue
			}
		case model.OpErase:
			if _, err := idx.Erase(word); err != nil {
				log.Printf("aof: line %d erase %q: %v", line, word, err)
				continue
			}
		default:
			continue
		}
		applied++
		last = max(last, version)
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("read aof: %w", err)
	}
	// 回放期间索引尚未对外发布，可直接对齐版本号
	if last > idx.Version {
		idx.Version = last
	}
	return applied, nil
}

// Truncate 清空日志，在快照成功落盘后调用。
func (l *AOFLogger) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Truncate(0)
}

// Close 关闭 AOF 日志文件。
func (l *AOFLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
