package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/google/go-cmp/cmp"

	"lexirank/internal/domain/model"
)

// recordingRepo 记录仓储调用，便于断言日志与快照行为
type recordingRepo struct {
	mu       sync.Mutex
	ops      []string
	versions []int64
	saves    int
	closed   bool
	failLog  error
}

func (r *recordingRepo) Load(id, name string) (*model.Index, error) {
	return model.NewIndex(id, name), nil
}

func (r *recordingRepo) Save(*model.Index) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	return nil
}

func (r *recordingRepo) LogInsert(version int64, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, "insert "+word)
	r.versions = append(r.versions, version)
	return r.failLog
}

func (r *recordingRepo) LogErase(version int64, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, "erase "+word)
	r.versions = append(r.versions, version)
	return r.failLog
}

func (r *recordingRepo) Close() error {
	r.closed = true
	return nil
}

func (r *recordingRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func newTestService(t *testing.T) (IndexService, *recordingRepo) {
	t.Helper()
	repo := &recordingRepo{}
	svc, err := NewIndexService(model.NewIndex("svc", "服务"), repo, 8)
	assert.Equal(t, nil, err)
	return svc, repo
}

func TestNewIndexServiceRequiresDeps(t *testing.T) {
	_, err := NewIndexService(nil, &recordingRepo{}, 8)
	assert.NotEqual(t, nil, err)
}

func TestServiceMutationsAreLogged(t *testing.T) {
	svc, repo := newTestService(t)

	n, err := svc.Insert("ab")
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)
	n, err = svc.Insert("ab")
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, n)
	n, err = svc.Erase("ab")
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)

	// 未存储的字符串删除失败，不写日志
	_, err = svc.Erase("zz")
	assert.Equal(t, model.ErrWordNotFound, err)

	want := []string{"insert ab", "insert ab", "erase ab"}
	if diff := cmp.Diff(want, repo.ops); diff != "" {
		t.Fatalf("logged ops mismatch (-want +got):\n%s", diff)
	}
	// 每条日志携带修改后的版本号
	assert.Equal(t, []int64{1, 2, 3}, repo.versions)
}

func TestServiceValidatesWords(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Insert("")
	assert.T(t, errors.Is(err, ErrInvalidWord))
	_, err = svc.Insert(strings.Repeat("x", 9))
	assert.T(t, errors.Is(err, ErrInvalidWord))
	_, err = svc.Erase("")
	assert.T(t, errors.Is(err, ErrInvalidWord))

	assert.Equal(t, 0, len(repo.ops))
	assert.Equal(t, 0, svc.Stats().Total)
}

func TestServiceLogFailureKeepsMutation(t *testing.T) {
	svc, repo := newTestService(t)
	repo.failLog = errors.New("disk full")

	n, err := svc.Insert("a")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, svc.Count("a"))
}

func TestServiceQueries(t *testing.T) {
	svc, _ := newTestService(t)
	for _, w := range []string{"ba", "abcde", "ab", "ab", "abe", "abcx", "aa"} {
		_, err := svc.Insert(w)
		assert.Equal(t, nil, err)
	}

	assert.Equal(t, 2, svc.Count("ab"))
	assert.Equal(t, 5, svc.PrefixCount("ab"))

	r, err := svc.Rank("abe")
	assert.Equal(t, nil, err)
	assert.Equal(t, 6, r)

	s, err := svc.Select(7)
	assert.Equal(t, nil, err)
	assert.Equal(t, "ba", s)

	s, err = svc.Next("abe")
	assert.Equal(t, nil, err)
	assert.Equal(t, "ba", s)

	_, err = svc.Prev("aa")
	assert.Equal(t, model.ErrNoNeighbor, err)

	s, err = svc.LCP("abz", false)
	assert.Equal(t, nil, err)
	assert.Equal(t, "ab", s)

	assert.Equal(t, 2, len(svc.Complete("abc", 5)))
	assert.Equal(t, 3, len(svc.Page(1, 3)))

	near, err := svc.Nearby("abe", 2)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(near))

	assert.Equal(t, svc.Stats().Nodes, len(svc.Nodes()))
}

func TestSnapshotLoop(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.Insert("a")
	assert.Equal(t, nil, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSnapshotLoop(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for repo.saveCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	// 版本未变化时不重复保存
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, repo.saveCount())
}

func TestSnapshotLoopDisabled(t *testing.T) {
	svc, repo := newTestService(t)
	svc.RunSnapshotLoop(context.Background(), 0)
	assert.Equal(t, 0, repo.saveCount())
}

func TestClose(t *testing.T) {
	svc, repo := newTestService(t)
	assert.Equal(t, nil, svc.Close())
	assert.Equal(t, 1, repo.saveCount())
	assert.T(t, repo.closed)
}

func TestWatchReceivesMutations(t *testing.T) {
	svc, _ := newTestService(t)

	var got []model.Event
	assert.Equal(t, nil, svc.Watch("w1", "ab*", func(_ string, ev model.Event) {
		got = append(got, ev)
	}))

	svc.Insert("ab")
	svc.Insert("abc")
	svc.Insert("ba")
	svc.Erase("ab")
	svc.Erase("zz")

	want := []model.Event{
		{Op: model.OpInsert, Word: "ab", Count: 1, Version: 1},
		{Op: model.OpInsert, Word: "abc", Count: 1, Version: 2},
		{Op: model.OpErase, Word: "ab", Count: 0, Version: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	svc.Unwatch("w1")
	svc.Insert("ab")
	assert.Equal(t, 3, len(got))

	err := svc.Watch("w2", "a*b", func(string, model.Event) {})
	assert.T(t, errors.Is(err, ErrInvalidWord))
}
