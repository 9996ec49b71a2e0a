// Package watch 提供按前缀订阅的事件分发：订阅主题只允许末尾通配 '*'，
// 发布时沿前缀树逐层匹配通配订阅，在末端匹配精确订阅。
package watch

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrInvalidPattern = errors.New("'*' can only be used at the end of pattern")
	ErrEmptyID        = errors.New("subscriber id is empty")
	ErrNilHandler     = errors.New("handler is nil")
)

// Handler 为订阅者的回调函数类型。回调在发布方的 goroutine 中执行，不应阻塞。
type Handler[T any] func(subject string, content T)

type stringSet map[string]struct{}

// node 是订阅前缀树的节点
type node struct {
	exact    stringSet // 精确订阅该主题的订阅者
	wildcard stringSet // 订阅该前缀（prefix + '*'）的订阅者
	children map[byte]*node
}

func (n *node) empty() bool {
	return len(n.exact) == 0 && len(n.wildcard) == 0 && len(n.children) == 0
}

// Hub 为事件分发中心，可并发使用。
type Hub[T any] struct {
	mu       sync.RWMutex
	root     node
	handlers map[string]Handler[T]
	patterns map[string]stringSet // 订阅者 -> 已订阅的原始主题
}

// NewHub 创建一个事件分发中心。
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		handlers: map[string]Handler[T]{},
		patterns: map[string]stringSet{},
	}
}

func parsePattern(pattern string) (prefix string, wildcard bool, err error) {
	i := strings.IndexByte(pattern, '*')
	switch {
	case i < 0:
		return pattern, false, nil
	case i != len(pattern)-1:
		return "", false, ErrInvalidPattern
	default:
		return pattern[:i], true, nil
	}
}

// Subscribe 订阅主题。"ab*" 匹配所有以 ab 开头的主题，"*" 匹配全部主题。
// 每个订阅者只保存一个 Handler，重复订阅以最后一次为准。
func (h *Hub[T]) Subscribe(id, pattern string, handler Handler[T]) error {
	if id == "" {
		return ErrEmptyID
	}
	if handler == nil {
		return ErrNilHandler
	}
	prefix, wildcard, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	n := &h.root
	for i := 0; i < len(prefix); i++ {
		if n.children == nil {
			n.children = map[byte]*node{}
		}
		child := n.children[prefix[i]]
		if child == nil {
			child = &node{}
			n.children[prefix[i]] = child
		}
		n = child
	}
	if wildcard {
		if n.wildcard == nil {
			n.wildcard = stringSet{}
		}
		n.wildcard[id] = struct{}{}
	} else {
		if n.exact == nil {
			n.exact = stringSet{}
		}
		n.exact[id] = struct{}{}
	}

	h.handlers[id] = handler
	if h.patterns[id] == nil {
		h.patterns[id] = stringSet{}
	}
	h.patterns[id][pattern] = struct{}{}
	return nil
}

// Unsubscribe 取消一个主题的订阅，订阅者不再有任何主题时同时移除其 Handler。
func (h *Hub[T]) Unsubscribe(id, pattern string) error {
	prefix, wildcard, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(id, prefix, wildcard)
	if set := h.patterns[id]; set != nil {
		delete(set, pattern)
		if len(set) == 0 {
			delete(h.patterns, id)
			delete(h.handlers, id)
		}
	}
	return nil
}

// UnsubscribeAll 取消该订阅者的所有订阅。
func (h *Hub[T]) UnsubscribeAll(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pattern := range h.patterns[id] {
		prefix, wildcard, _ := parsePattern(pattern)
		h.remove(id, prefix, wildcard)
	}
	delete(h.patterns, id)
	delete(h.handlers, id)
}

// remove 从前缀树中移除订阅，并自底向上裁剪空节点。调用方持有写锁。
func (h *Hub[T]) remove(id, prefix string, wildcard bool) {
	path := make([]*node, 0, len(prefix)+1)
	n := &h.root
	path = append(path, n)
	for i := 0; i < len(prefix); i++ {
		n = n.children[prefix[i]]
		if n == nil {
			return
		}
		path = append(path, n)
	}
	if wildcard {
		delete(n.wildcard, id)
	} else {
		delete(n.exact, id)
	}

	for i := len(path) - 1; i > 0 && path[i].empty(); i-- {
		delete(path[i-1].children, prefix[i-1])
	}
}

// Publish 将 content 发送给所有匹配 subject 的订阅者，返回收到事件的订阅者数。
// 每个订阅者至多收到一次。subject 中的 '*' 按普通字节匹配。
func (h *Hub[T]) Publish(subject string, content T) int {
	h.mu.RLock()
	matched := stringSet{}
	n := &h.root
	for i := 0; n != nil; i++ {
		for id := range n.wildcard {
			matched[id] = struct{}{}
		}
		if i == len(subject) {
			for id := range n.exact {
				matched[id] = struct{}{}
			}
			break
		}
		n = n.children[subject[i]]
	}
	handlers := make([]Handler[T], 0, len(matched))
	for id := range matched {
		if handler := h.handlers[id]; handler != nil {
			handlers = append(handlers, handler)
		}
	}
	h.mu.RUnlock()

	// 释放锁后回调，允许 Handler 内部再订阅或取消订阅
	for _, handler := range handlers {
		handler(subject, content)
	}
	return len(handlers)
}

// Subscribers 返回当前订阅者数量。
func (h *Hub[T]) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers)
}
