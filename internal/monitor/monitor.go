package monitor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Stats 一次采样的结果，都是百分比 (0-100)
type Stats struct {
	CPU float64
	Mem float64
}

// Monitor 后台定时采集 CPU 和内存，关于面板里显示用
type Monitor struct {
	interval time.Duration
	logger   *zap.Logger

	mu    sync.RWMutex
	stats Stats

	readCPU func() (float64, error)
	readMem func() (float64, error)
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		interval: interval,
		logger:   logger,
		readCPU:  cpuPercent,
		readMem:  memPercent,
	}
}

// Start 启动监控协程 (只需要在程序启动时调用一次)，ctx 取消时退出
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			m.sample()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stats 读取最近一次的数据
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// sample 真正去干活获取数据，某一项失败就保留上次的值
func (m *Monitor) sample() {
	m.mu.RLock()
	next := m.stats
	m.mu.RUnlock()

	if v, err := m.readMem(); err == nil {
		next.Mem = round1(v)
	} else {
		m.logger.Debug("memory sample failed", zap.Error(err))
	}
	if v, err := m.readCPU(); err == nil {
		next.CPU = round1(v)
	} else {
		m.logger.Debug("cpu sample failed", zap.Error(err))
	}

	m.mu.Lock()
	m.stats = next
	m.mu.Unlock()
}

func memPercent() (float64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.UsedPercent, nil
}

// Percent(0, false)：所有核的平均值，用上次调用以来的间隔计算，不阻塞
func cpuPercent() (float64, error) {
	c, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(c) == 0 {
		return 0, nil
	}
	return c[0], nil
}

// 保留 1 位小数，看着干净
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
