package source

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"salestrack/internal/model"
)

// Memory 内存数据源（测试与演示用），支持注入失败和延迟
type Memory struct {
	mu       sync.RWMutex
	sheets   map[string][][]string
	failures map[string]error
	delays   map[string]time.Duration
	fetches  map[string]int
}

// NewMemory 创建内存数据源
func NewMemory() *Memory {
	return &Memory{
		sheets:   make(map[string][][]string),
		failures: make(map[string]error),
		delays:   make(map[string]time.Duration),
		fetches:  make(map[string]int),
	}
}

// SetSheet 设置 Sheet 内容（第一行为表头）
func (m *Memory) SetSheet(name string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[name] = rows
}

// Fail 让读取指定 Sheet 返回错误
func (m *Memory) Fail(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[name] = err
}

// Delay 读取指定 Sheet 前等待（用于超时测试）
func (m *Memory) Delay(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[name] = d
}

// Fetches 指定 Sheet 被读取的次数
func (m *Memory) Fetches(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetches[name]
}

// FetchSheet 读取指定 Sheet 的区域
func (m *Memory) FetchSheet(ctx context.Context, sheet string, rng CellRange) ([][]string, error) {
	m.mu.Lock()
	m.fetches[sheet]++
	delay := m.delays[sheet]
	failure := m.failures[sheet]
	rows, ok := m.sheets[sheet]
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", model.ErrSourceUnavailable, sheet, failure)
	}
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q not found", model.ErrSourceUnavailable, sheet)
	}
	return rng.Clip(rows), nil
}

// Sheets 全部 Sheet 名（排序）
func (m *Memory) Sheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sheets))
	for name := range m.sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close 无需释放资源
func (m *Memory) Close() error { return nil }
