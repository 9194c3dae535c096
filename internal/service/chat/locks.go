package chat

import (
	"context"
	"sync"
)

// turnLocks 按会话 ID 串行化轮次；条目带引用计数，空闲即回收。
type turnLocks struct {
	mu    sync.Mutex
	locks map[string]*turnLock
}

type turnLock struct {
	ch   chan struct{}
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[string]*turnLock)}
}

// acquire blocks until the session's lock is held or ctx is done.
func (l *turnLocks) acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &turnLock{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(key, entry)
		})
	}, nil
}

func (l *turnLocks) release(key string, entry *turnLock) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

func (l *turnLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
