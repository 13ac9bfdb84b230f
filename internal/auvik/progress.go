package auvik

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Progress receives one tick per completed page or processed record.
// Implementations must not block; the pipeline never waits on them.
type Progress interface {
	Start(title string, total int)
	Tick()
	Done()
}

// nopProgress is the default observer.
type nopProgress struct{}

func (nopProgress) Start(string, int) {}
func (nopProgress) Tick()             {}
func (nopProgress) Done()             {}

// LogProgress reports progress through the logger: one line at start and
// completion of each phase. Safe for concurrent ticks.
type LogProgress struct {
	logger *zap.Logger
	title  string
	total  int
	done   atomic.Int64
}

// NewLogProgress builds a logging progress observer.
func NewLogProgress(logger *zap.Logger) *LogProgress {
	return &LogProgress{logger: logger}
}

func (p *LogProgress) Start(title string, total int) {
	p.title = title
	p.total = total
	p.done.Store(0)
	p.logger.Info(title, zap.Int("total", total))
}

func (p *LogProgress) Tick() {
	p.done.Add(1)
}

func (p *LogProgress) Done() {
	p.logger.Info(p.title+" finished",
		zap.Int64("completed", p.done.Load()),
		zap.Int("total", p.total),
	)
}
