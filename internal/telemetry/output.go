package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/engine/frame"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
)

// FileName is the CSV written inside the telemetry directory.
const FileName = "telemetry.csv"

// Record is one row of telemetry.csv.
type Record struct {
	Frame      uint64  `csv:"frame"`
	AgentTime  float32 `csv:"agent_time"`
	AgentX     float32 `csv:"agent_x"`
	AgentY     float32 `csv:"agent_y"`
	AgentZ     float32 `csv:"agent_z"`
	SourceX    float32 `csv:"source_x"`
	SourceY    float32 `csv:"source_y"`
	Perturbing bool    `csv:"perturbing"`
	Mean       float64 `csv:"mean"`
	StdDev     float64 `csv:"stddev"`
	Min        float64 `csv:"min"`
	Max        float64 `csv:"max"`
	Energy     float64 `csv:"energy"`
}

// Recorder writes a Record every Interval frames. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	dir           string
	interval      uint64
	file          *os.File
	headerWritten bool
	rows          int
	last          *water.Heightmap // Copy of the last recorded heightmap
}

// NewRecorder creates dir and opens telemetry.csv inside it.
// Returns nil if dir is empty (telemetry disabled).
func NewRecorder(dir string, interval int) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if interval <= 0 {
		interval = 1
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", FileName, err)
	}

	logger.Info("telemetry enabled", zap.String("dir", dir), zap.Int("interval", interval))
	return &Recorder{dir: dir, interval: uint64(interval), file: f}, nil
}

// ObserveFrame implements frame.Observer. Frames without a host heightmap
// are skipped.
func (r *Recorder) ObserveFrame(info frame.Info) error {
	if r == nil || info.Frame%r.interval != 0 || info.Heightmap == nil {
		return nil
	}

	if r.last == nil || r.last.Width != info.Heightmap.Width {
		r.last = info.Heightmap.Clone()
	} else if err := r.last.CopyFrom(info.Heightmap); err != nil {
		return err
	}

	s := Measure(info.Heightmap)
	return r.Write(Record{
		Frame:      info.Frame,
		AgentTime:  info.Agent.Time,
		AgentX:     info.Agent.Position.X,
		AgentY:     info.Agent.Position.Y,
		AgentZ:     info.Agent.Position.Z,
		SourceX:    info.Source.X,
		SourceY:    info.Source.Y,
		Perturbing: info.Source != water.Sentinel,
		Mean:       s.Mean,
		StdDev:     s.StdDev,
		Min:        s.Min,
		Max:        s.Max,
		Energy:     s.Energy,
	})
}

// Write appends a record to telemetry.csv.
func (r *Recorder) Write(rec Record) error {
	if r == nil {
		return nil
	}

	records := []Record{rec}
	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	r.rows++
	return nil
}

// Dir returns the output directory path.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Rows returns the number of records written.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Close closes telemetry.csv and writes heightmap.png from the last
// recorded frame.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil

	if r.last != nil {
		path := filepath.Join(r.dir, SnapshotName)
		if serr := WritePNG(path, HeightImage(r.last)); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
