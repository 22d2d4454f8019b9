package telemetry

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/engine/frame"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
)

// DefaultTolerance is the largest per-channel difference ParityCheck accepts
// between the reference stage and the observed step.
const DefaultTolerance = 1e-3

// ParityCheck re-runs a reference stage on the previous host heightmap every
// Interval frames and compares its output with the observed step. It is used
// to check the GPU kernel against the host kernel from readback data.
type ParityCheck struct {
	stage     water.Stage[*water.Heightmap]
	interval  uint64
	tolerance float64

	prev      *water.Heightmap
	prevFrame uint64
	havePrev  bool
	scratch   *water.Heightmap

	checks   int
	failures int
	worst    float64
	log      *zap.Logger
}

// NewParityCheck creates a check against stage. A non-positive interval
// checks every frame; a non-positive tolerance uses DefaultTolerance.
func NewParityCheck(stage water.Stage[*water.Heightmap], interval int, tolerance float64) *ParityCheck {
	if interval <= 0 {
		interval = 1
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &ParityCheck{
		stage:     stage,
		interval:  uint64(interval),
		tolerance: tolerance,
		log:       logger.Named("parity"),
	}
}

// ObserveFrame implements frame.Observer.
func (p *ParityCheck) ObserveFrame(info frame.Info) error {
	if info.Heightmap == nil {
		return nil
	}

	if p.havePrev && p.prevFrame+1 == info.Frame {
		if err := p.compare(info); err != nil {
			return err
		}
	}

	// Keep the state this frame ends in when the next frame is checked.
	if (info.Frame+1)%p.interval == 0 {
		if p.prev == nil || p.prev.Width != info.Heightmap.Width {
			p.prev = info.Heightmap.Clone()
		} else if err := p.prev.CopyFrom(info.Heightmap); err != nil {
			return err
		}
		p.prevFrame = info.Frame
		p.havePrev = true
	} else {
		p.havePrev = false
	}
	return nil
}

func (p *ParityCheck) compare(info frame.Info) error {
	if p.scratch == nil || p.scratch.Width != p.prev.Width {
		p.scratch = water.NewHeightmap(p.prev.Width)
	}
	if err := p.stage.Apply(p.scratch, p.prev, water.Inputs{Source: info.Source}); err != nil {
		return err
	}
	diff, err := MaxAbsDiff(p.scratch, info.Heightmap)
	if err != nil {
		return err
	}

	p.checks++
	p.worst = max(p.worst, diff)
	if diff > p.tolerance {
		p.failures++
		p.log.Warn("kernel diverges from reference",
			zap.Uint64("frame", info.Frame),
			zap.Float64("maxAbsDiff", diff),
			zap.Float64("tolerance", p.tolerance),
		)
		return nil
	}
	p.log.Debug("kernel matches reference", zap.Uint64("frame", info.Frame), zap.Float64("maxAbsDiff", diff))
	return nil
}

// Checks returns how many frames were compared.
func (p *ParityCheck) Checks() int { return p.checks }

// Failures returns how many comparisons exceeded the tolerance.
func (p *ParityCheck) Failures() int { return p.failures }

// Worst returns the largest difference seen so far.
func (p *ParityCheck) Worst() float64 { return p.worst }
