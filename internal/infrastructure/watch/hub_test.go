package watch

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/bmizerany/assert"
)

// recorder 记录接收到的事件
type recorder[T any] struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder[T]) handle(subject string, content T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s: %v", subject, content))
}

func (r *recorder[T]) getEvents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.events...)
	sort.Strings(out)
	return out
}

func TestExactSubscription(t *testing.T) {
	h := NewHub[int]()
	r := &recorder[int]{}
	assert.Equal(t, nil, h.Subscribe("A", "ab", r.handle))

	assert.Equal(t, 1, h.Publish("ab", 1))
	h.Publish("abc", 2)
	h.Publish("a", 3)

	assert.Equal(t, []string{"ab: 1"}, r.getEvents())
}

func TestWildcardSubscription(t *testing.T) {
	h := NewHub[int]()
	r := &recorder[int]{}
	assert.Equal(t, nil, h.Subscribe("B", "ab*", r.handle))

	h.Publish("ab", 1)
	h.Publish("abcde", 2)
	h.Publish("ba", 3)
	h.Publish("a", 4)

	assert.Equal(t, []string{"ab: 1", "abcde: 2"}, r.getEvents())
}

func TestStarOnlySubscription(t *testing.T) {
	h := NewHub[string]()
	r := &recorder[string]{}
	assert.Equal(t, nil, h.Subscribe("C", "*", r.handle))

	h.Publish("anything", "ok")
	h.Publish("", "empty")

	assert.Equal(t, []string{": empty", "anything: ok"}, r.getEvents())
}

func TestOverlappingPatternsDeliverOnce(t *testing.T) {
	h := NewHub[int]()
	r := &recorder[int]{}
	h.Subscribe("D", "a*", r.handle)
	h.Subscribe("D", "ab*", r.handle)
	h.Subscribe("D", "abc", r.handle)

	assert.Equal(t, 1, h.Publish("abc", 1))
	assert.Equal(t, []string{"abc: 1"}, r.getEvents())
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub[int]()
	r := &recorder[int]{}
	h.Subscribe("E", "ab*", r.handle)
	h.Subscribe("E", "ba", r.handle)

	assert.Equal(t, nil, h.Unsubscribe("E", "ab*"))
	h.Publish("abc", 1)
	h.Publish("ba", 2)
	assert.Equal(t, []string{"ba: 2"}, r.getEvents())
	assert.Equal(t, 1, h.Subscribers())

	assert.Equal(t, nil, h.Unsubscribe("E", "ba"))
	assert.Equal(t, 0, h.Subscribers())
	// 空节点已被裁剪
	assert.Equal(t, 0, len(h.root.children))
}

func TestUnsubscribeAll(t *testing.T) {
	h := NewHub[int]()
	r := &recorder[int]{}
	other := &recorder[int]{}
	h.Subscribe("F", "a*", r.handle)
	h.Subscribe("F", "abc", r.handle)
	h.Subscribe("G", "abc", other.handle)

	h.UnsubscribeAll("F")
	h.Publish("abc", 1)

	assert.Equal(t, 0, len(r.getEvents()))
	assert.Equal(t, []string{"abc: 1"}, other.getEvents())
	assert.Equal(t, 1, h.Subscribers())
}

func TestErrorHandling(t *testing.T) {
	h := NewHub[string]()
	noop := func(string, string) {}

	assert.Equal(t, ErrInvalidPattern, h.Subscribe("s1", "a*c", noop))
	assert.Equal(t, ErrEmptyID, h.Subscribe("", "abc", noop))
	assert.Equal(t, ErrNilHandler, h.Subscribe("s1", "abc", nil))
	assert.Equal(t, ErrInvalidPattern, h.Unsubscribe("s1", "**"))

	// '*' 出现在发布主题中时按普通字节匹配
	r := &recorder[string]{}
	h.Subscribe("s2", "a*", r.handle)
	assert.Equal(t, 1, h.Publish("a*b", "x"))
}

func TestHandlerMayUnsubscribe(t *testing.T) {
	h := NewHub[int]()
	calls := 0
	h.Subscribe("H", "*", func(string, int) {
		calls++
		h.UnsubscribeAll("H")
	})

	h.Publish("a", 1)
	h.Publish("b", 2)
	assert.Equal(t, 1, calls)
}

func TestConcurrentPublish(t *testing.T) {
	h := NewHub[int]()
	r := &recorder[int]{}
	h.Subscribe("I", "k*", r.handle)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Publish(fmt.Sprintf("k%d", i), i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, len(r.getEvents()))
}
