package service

import (
	"context"
	"log"
	"sync"

	"lexassist/storage/postgres"
	"lexassist/types"
)

// CallObserver 接收每次外部服务调用的记录
type CallObserver interface {
	Observe(ctx context.Context, rec types.CallRecord)
}

// CallLog 供调试接口读取调用记录
type CallLog interface {
	Last(ctx context.Context, service string) (*types.CallRecord, error)
	List(ctx context.Context, service string, limit int) ([]types.CallRecord, error)
}

type NopObserver struct{}

func (NopObserver) Observe(context.Context, types.CallRecord) {}

// MemoryObserver 进程内保留最近 size 条调用
type MemoryObserver struct {
	mu    sync.Mutex
	size  int
	calls []types.CallRecord
}

func NewMemoryObserver(size int) *MemoryObserver {
	if size <= 0 {
		size = 1
	}
	return &MemoryObserver{size: size}
}

func (m *MemoryObserver) Observe(_ context.Context, rec types.CallRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, rec)
	if len(m.calls) > m.size {
		m.calls = m.calls[len(m.calls)-m.size:]
	}
}

func (m *MemoryObserver) Last(_ context.Context, service string) (*types.CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if service == "" || m.calls[i].Service == service {
			rec := m.calls[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *MemoryObserver) List(_ context.Context, service string, limit int) ([]types.CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.CallRecord{}
	for i := len(m.calls) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if service == "" || m.calls[i].Service == service {
			out = append(out, m.calls[i])
		}
	}
	return out, nil
}

// RepoObserver 把调用记录写入数据库
type RepoObserver struct {
	repo *postgres.CallLogRepo
}

func NewRepoObserver(repo *postgres.CallLogRepo) *RepoObserver {
	return &RepoObserver{repo: repo}
}

func (r *RepoObserver) Observe(ctx context.Context, rec types.CallRecord) {
	// 请求结束后仍需落库
	if err := r.repo.Create(context.WithoutCancel(ctx), postgres.FromRecord(rec)); err != nil {
		log.Printf(">>> [CALLLOG] 写入调用记录失败: %v", err)
	}
}

func (r *RepoObserver) Last(ctx context.Context, service string) (*types.CallRecord, error) {
	call, err := r.repo.Latest(ctx, service)
	if err != nil || call == nil {
		return nil, err
	}
	rec := call.Record()
	return &rec, nil
}

func (r *RepoObserver) List(ctx context.Context, service string, limit int) ([]types.CallRecord, error) {
	calls, err := r.repo.List(ctx, service, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.CallRecord, 0, len(calls))
	for i := range calls {
		out = append(out, calls[i].Record())
	}
	return out, nil
}

// MultiObserver 依次通知多个观察者
type MultiObserver []CallObserver

func (m MultiObserver) Observe(ctx context.Context, rec types.CallRecord) {
	for _, o := range m {
		o.Observe(ctx, rec)
	}
}
