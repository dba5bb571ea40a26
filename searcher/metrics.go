package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetrics struct {
	StartTime time.Time
	Duration  time.Duration
	Nodes     int64
	Terminals int64 // Positions played out to the end of the deal
	Pruned    int64
	CacheHits int64
}

// MetricsCollector counts the work of one or more searches. Implementations are safe for
// concurrent use, so one collector can be shared by searches over different worlds.
type MetricsCollector interface {
	Start()
	AddNode()
	AddTerminal()
	AddPruned()
	AddCacheHit()
	Complete() SearchMetrics
}

type metricsCollector struct {
	startTime time.Time
	nodes     atomic.Int64
	terminals atomic.Int64
	pruned    atomic.Int64
	cacheHits atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
}

func (m *metricsCollector) AddNode() {
	m.nodes.Add(1)
}

func (m *metricsCollector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *metricsCollector) AddPruned() {
	m.pruned.Add(1)
}

func (m *metricsCollector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime: m.startTime,
		Duration:  time.Since(m.startTime),
		Nodes:     m.nodes.Load(),
		Terminals: m.terminals.Load(),
		Pruned:    m.pruned.Load(),
		CacheHits: m.cacheHits.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                  {}
func (m *noMetricsCollector) AddNode()                {}
func (m *noMetricsCollector) AddTerminal()            {}
func (m *noMetricsCollector) AddPruned()              {}
func (m *noMetricsCollector) AddCacheHit()            {}
func (m *noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }
