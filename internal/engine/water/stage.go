package water

import (
	"errors"
	"fmt"
	gomath "math"
	"runtime"
	"sync"

	"github.com/Faultbox/wavepool/pkg/math"
)

// Stage advances a simulation buffer by one step. Apply must read only src
// and write only dst.
type Stage[T any] interface {
	Apply(dst, src T, in Inputs) error
}

// parallelRows is the minimum grid height worth fanning out across goroutines.
const parallelRows = 32

// CPUStage runs the per-cell update on the host, splitting rows across workers.
// Output does not depend on the worker count.
type CPUStage struct {
	params  Params
	workers int
}

// NewCPUStage validates params and creates a stage. workers <= 0 means GOMAXPROCS.
func NewCPUStage(params Params, workers int) (*CPUStage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CPUStage{params: params, workers: workers}, nil
}

// Params returns the stage parameters.
func (s *CPUStage) Params() Params {
	return s.params
}

// Apply computes dst from src.
func (s *CPUStage) Apply(dst, src *Heightmap, in Inputs) error {
	if dst == nil || src == nil {
		return errors.New("nil heightmap")
	}
	if dst == src {
		return errors.New("stage cannot update a heightmap in place")
	}
	w := s.params.Width
	if src.Width != w || dst.Width != w {
		return fmt.Errorf("heightmap width %d/%d does not match grid width %d", src.Width, dst.Width, w)
	}
	in = in.Sanitize()

	workers := s.workers
	if w < parallelRows || workers == 1 {
		s.rows(dst, src, in, 0, w)
		return nil
	}

	chunk := (w + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < w; start += chunk {
		end := min(start+chunk, w)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			s.rows(dst, src, in, y0, y1)
		}(start, end)
	}
	wg.Wait()
	return nil
}

func (s *CPUStage) rows(dst, src *Heightmap, in Inputs, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < s.params.Width; x++ {
			h, v := s.Cell(src, x, y, in)
			dst.SetCell(x, y, h, v)
		}
	}
}

// Cell evaluates the update rule for one cell and returns the new height and
// velocity:
//
//	avg  = (north + south + east + west) / 4
//	h'   = viscosity*avg + (1-viscosity)*(h + v) + perturbation(d)
//	h'  -= compensation * (h' - rest)   on edge cells only
//	v'   = h' - h
func (s *CPUStage) Cell(src *Heightmap, x, y int, in Inputs) (height, velocity float32) {
	p := s.params
	h := src.Height(x, y)
	v := src.Velocity(x, y)

	north := s.neighbor(src, x, y+1, h)
	south := s.neighbor(src, x, y-1, h)
	east := s.neighbor(src, x+1, y, h)
	west := s.neighbor(src, x-1, y, h)
	avg := (north + south + east + west) / 4

	next := avg
	if p.Viscosity != 1 {
		next = p.Viscosity*avg + (1-p.Viscosity)*(h+v)
	}
	next += Perturbation(p, float32(x), float32(y), in.Source)

	if x == 0 || y == 0 || x == p.Width-1 || y == p.Width-1 {
		next -= p.Compensation * (next - p.RestHeight)
	}
	return next, next - h
}

// neighbor reads the height at (x, y), applying the boundary policy when the
// cell lies outside the grid. self is the height of the cell asking.
func (s *CPUStage) neighbor(src *Heightmap, x, y int, self float32) float32 {
	w := s.params.Width
	if x < 0 || y < 0 || x >= w || y >= w {
		if s.params.Boundary == BoundaryFixed {
			return s.params.RestHeight
		}
		return self
	}
	return src.Height(x, y)
}

// Perturbation returns the height added to cell (x, y) by a disturbance at
// source. It is a raised cosine of the grid distance that reaches zero one cell
// past the radius, so every cell within the radius (rim included) is
// disturbed and nothing beyond it is.
func Perturbation(p Params, x, y float32, source math.Vec2) float32 {
	dx := x - source.X
	dy := y - source.Y
	if dx > p.Radius || dx < -p.Radius || dy > p.Radius || dy < -p.Radius {
		return 0
	}
	d := float32(gomath.Sqrt(float64(dx*dx + dy*dy)))
	if d > p.Radius {
		return 0
	}
	phase := gomath.Pi * float64(d) / float64(p.Radius+1)
	return p.Strength * float32(gomath.Cos(phase)+1) / 2
}
