package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Mode       string
	Workers    int
	StartTime  time.Time
	Duration   time.Duration
	Rounds     int
	Expanded   int // positions whose moves or predecessors were generated
	Generated  int // transitions produced by the move generator
	Duplicates int // generated positions already in the index
	Nodes      int // index size when the search stopped
}

type Collector interface {
	Start(mode string, workers int)
	AddRound()
	AddExpanded(n int)
	AddGenerated(n int)
	AddDuplicates(n int)
	Complete(nodes int) SearchMetric
}

type collector struct {
	mode       string
	workers    int
	startTime  time.Time
	rounds     atomic.Int64
	expanded   atomic.Int64
	generated  atomic.Int64
	duplicates atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(mode string, workers int) {
	m.startTime = time.Now()
	m.mode = mode
	m.workers = workers
	m.rounds.Store(0)
	m.expanded.Store(0)
	m.generated.Store(0)
	m.duplicates.Store(0)
}

func (m *collector) AddRound() {
	m.rounds.Add(1)
}

func (m *collector) AddExpanded(n int) {
	m.expanded.Add(int64(n))
}

func (m *collector) AddGenerated(n int) {
	m.generated.Add(int64(n))
}

func (m *collector) AddDuplicates(n int) {
	m.duplicates.Add(int64(n))
}

func (m *collector) Complete(nodes int) SearchMetric {
	return SearchMetric{
		Mode:       m.mode,
		Workers:    m.workers,
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		Rounds:     int(m.rounds.Load()),
		Expanded:   int(m.expanded.Load()),
		Generated:  int(m.generated.Load()),
		Duplicates: int(m.duplicates.Load()),
		Nodes:      nodes,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(mode string, workers int) {}
func (m *dummyCollector) AddRound()                      {}
func (m *dummyCollector) AddExpanded(n int)              {}
func (m *dummyCollector) AddGenerated(n int)             {}
func (m *dummyCollector) AddDuplicates(n int)            {}
func (m *dummyCollector) Complete(nodes int) SearchMetric {
	return SearchMetric{Nodes: nodes}
}

type MoveMetric struct {
	Ply      int
	Side     string
	Move     string
	BallRow  int
	Duration time.Duration
}

type GameMetric struct {
	StartingSide string
	Outcome      string
	Reason       string // goal, stalemate, repetition or ply-cap
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalMoves   int
}
