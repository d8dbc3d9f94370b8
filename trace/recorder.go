// Package trace records per-frame rigid body state as zstd-compressed JSON lines.
package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/vmath"
)

// Frame is one JSONL entry
type Frame struct {
	Frame  uint64      `json:"frame"`
	Dt     float64     `json:"dt"`
	Bodies []BodyState `json:"bodies"`
}

// BodyState is the recorded state of one entity
type BodyState struct {
	Entity   core.Entity `json:"entity"`
	Position [3]float64  `json:"pos"`
	Velocity [3]float64  `json:"vel"`
	Active   bool        `json:"active"`
}

// Recorder writes frames to an underlying writer through a zstd encoder
type Recorder struct {
	mu     sync.Mutex
	closer io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	frames uint64
}

// NewRecorder wraps w; Close flushes the encoder but does not close w
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, errors.Wrap(err, "zstd encoder")
	}
	return &Recorder{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Create opens path for writing, creating parent directories, and returns a recorder owning the file
func Create(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "trace directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open trace")
	}
	r, err := NewRecorder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Write appends one frame
func (r *Recorder) Write(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc == nil {
		return errors.New("trace recorder closed")
	}
	b, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}
	if _, err := r.w.Write(b); err != nil {
		return errors.Wrap(err, "write frame")
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write frame")
	}
	r.frames++
	return nil
}

// Capture snapshots every entity owning a rigid body and a translation
func (r *Recorder) Capture(w *engine.World, frame uint64, dt float64) error {
	entities := w.Query().With(w.RigidBodies).With(w.Translations).Execute()

	f := Frame{Frame: frame, Dt: dt, Bodies: make([]BodyState, 0, len(entities))}
	for _, e := range entities {
		rb, ok1 := w.RigidBodies.Get(e)
		tr, ok2 := w.Translations.Get(e)
		if !ok1 || !ok2 {
			continue
		}
		f.Bodies = append(f.Bodies, BodyState{
			Entity:   e,
			Position: vmath.V3FArray(tr.Value),
			Velocity: vmath.V3FArray(rb.Velocity),
			Active:   rb.IsActive,
		})
	}
	return r.Write(f)
}

// Frames returns the number of frames written
func (r *Recorder) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes buffered frames and finishes the zstd stream
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc == nil {
		return nil
	}

	var firstErr error
	if err := r.w.Flush(); err != nil {
		firstErr = errors.Wrap(err, "flush trace")
	}
	if err := r.enc.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "close zstd stream")
	}
	r.enc = nil
	r.w = nil

	if r.closer != nil {
		if err := r.closer.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "close trace file")
		}
		r.closer = nil
	}
	return firstErr
}

// ReadFrames decodes every frame of a compressed trace stream
func ReadFrames(rd io.Reader) ([]Frame, error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decoder")
	}
	defer dec.Close()

	var frames []Frame
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		var f Frame
		if err := json.Unmarshal(scanner.Bytes(), &f); err != nil {
			return frames, errors.Wrapf(err, "decode frame %d", len(frames))
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return frames, errors.Wrap(err, "read trace")
	}
	return frames, nil
}

// ReadFile decodes a trace file written by Create
func ReadFile(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open trace")
	}
	defer f.Close()
	return ReadFrames(f)
}
