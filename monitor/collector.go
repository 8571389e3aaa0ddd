package monitor

import (
	"sync"
	"time"
)

type Collector interface {
	Record(op string, duration time.Duration, err error)
	Flush() Snapshot
}

type InMemoryCollector struct {
	mu        sync.RWMutex
	ops       map[string]OpMetrics
	startTime time.Time
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		ops:       make(map[string]OpMetrics),
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) Record(op string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.ops[op]
	m.Op = op
	m.Calls++
	m.TotalDuration += duration
	if err != nil {
		m.Errors++
		m.LastError = err.Error()
	}
	c.ops[op] = m
}

func (c *InMemoryCollector) Flush() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ops := make(map[string]OpMetrics, len(c.ops))
	for k, v := range c.ops {
		ops[k] = v
	}

	return Snapshot{
		Ops:       ops,
		StartTime: c.startTime,
		EndTime:   time.Now(),
	}
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = make(map[string]OpMetrics)
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(op string, duration time.Duration, err error) {}

func (c *NoOpCollector) Flush() Snapshot {
	return Snapshot{}
}
