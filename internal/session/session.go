// Package session keeps the loaded source, the selected partition mode and
// the current four-slice result together, and re-partitions whenever the
// source or the mode changes.
//
// A Session is safe for concurrent use. When requests overlap, the one issued
// last wins: an earlier run that finishes late is discarded and its caller
// receives ErrSuperseded.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ironsheep/image-split-mcp/internal/imaging"
)

var (
	// ErrNoSource is returned when an operation needs a loaded image.
	ErrNoSource = errors.New("no image loaded")

	// ErrNoResult is returned when no partition result is available yet.
	ErrNoResult = errors.New("no partition result")

	// ErrSuperseded is returned to the caller of a run that was overtaken by
	// a newer load, mode change or reset.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusEmpty      Status = "empty"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Partitioner produces the four slices of a source.
type Partitioner interface {
	Partition(src *imaging.SourceImage, mode imaging.PartitionMode) (*imaging.Result, error)
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	Status       Status                `json:"status"`
	Mode         imaging.PartitionMode `json:"mode"`
	SourceWidth  int                   `json:"source_width,omitempty"`
	SourceHeight int                   `json:"source_height,omitempty"`
	SourceFormat string                `json:"source_format,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// Session holds one source image and its current partition.
type Session struct {
	partitioner Partitioner
	defaultMode imaging.PartitionMode
	logger      *slog.Logger

	mu         sync.Mutex
	generation uint64
	mode       imaging.PartitionMode
	source     *imaging.SourceImage
	result     *imaging.Result
	status     Status
	lastErr    error
}

// Option configures a Session.
type Option func(*Session)

// WithDefaultMode sets the mode used initially and after Reset.
func WithDefaultMode(mode imaging.PartitionMode) Option {
	return func(s *Session) {
		if mode.Valid() {
			s.defaultMode = mode
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty session.
func New(p Partitioner, opts ...Option) *Session {
	s := &Session{
		partitioner: p,
		defaultMode: imaging.Horizontal,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mode = s.defaultMode
	s.status = StatusEmpty
	return s
}

// Load replaces the source and partitions it with the current mode.
//
// The previous result is dropped before partitioning starts, so a failed
// load never leaves slices of the old image behind.
func (s *Session) Load(src *imaging.SourceImage) (*imaging.Result, error) {
	return s.load(src, nil)
}

// LoadWithMode selects mode and loads src as a single request.
func (s *Session) LoadWithMode(src *imaging.SourceImage, mode imaging.PartitionMode) (*imaging.Result, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", imaging.ErrInvalidMode, int(mode))
	}
	return s.load(src, &mode)
}

func (s *Session) load(src *imaging.SourceImage, mode *imaging.PartitionMode) (*imaging.Result, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	s.mu.Lock()
	s.source = src
	if mode != nil {
		s.mode = *mode
	}
	gen, current := s.begin()
	s.mu.Unlock()

	s.logger.Info("source loaded",
		"width", src.Width(), "height", src.Height(), "format", src.Format, "mode", current.String())
	return s.run(gen, src, current)
}

// SetMode selects the partition mode.
//
// With no source loaded the mode is stored and (nil, nil) is returned.
// Selecting the mode that produced the current result returns that result
// without re-partitioning.
func (s *Session) SetMode(mode imaging.PartitionMode) (*imaging.Result, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", imaging.ErrInvalidMode, int(mode))
	}

	s.mu.Lock()
	if s.result != nil && s.status == StatusReady && s.result.Mode == mode {
		result := s.result
		s.mu.Unlock()
		return result, nil
	}

	previous := s.mode
	s.mode = mode
	src := s.source
	if src == nil {
		s.mu.Unlock()
		s.logger.Debug("mode stored without source", "mode", mode.String())
		return nil, nil
	}
	gen, _ := s.begin()
	s.mu.Unlock()

	s.logger.Info("mode changed", "from", previous.String(), "to", mode.String())
	return s.run(gen, src, mode)
}

// begin starts a new partition run. Callers must hold s.mu.
func (s *Session) begin() (uint64, imaging.PartitionMode) {
	s.generation++
	s.result = nil
	s.lastErr = nil
	s.status = StatusProcessing
	return s.generation, s.mode
}

// run partitions outside the lock and commits only if gen is still current.
func (s *Session) run(gen uint64, src *imaging.SourceImage, mode imaging.PartitionMode) (*imaging.Result, error) {
	result, err := s.partitioner.Partition(src, mode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale partition", "generation", gen, "current", s.generation)
		return nil, ErrSuperseded
	}

	if err != nil {
		s.status = StatusFailed
		s.lastErr = err
		s.logger.Error("partition failed", "mode", mode.String(), "error", err)
		return nil, err
	}

	s.result = result
	s.status = StatusReady
	s.logger.Info("partition complete",
		"mode", mode.String(), "width", result.SourceWidth, "height", result.SourceHeight)
	return result, nil
}

// Result returns the current result. The boolean is false when no result
// has been produced, which is distinct from a failed run only via Status.
func (s *Session) Result() (*imaging.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// Source returns the loaded source, if any.
func (s *Session) Source() (*imaging.SourceImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.source != nil
}

// Mode returns the selected partition mode.
func (s *Session) Mode() imaging.PartitionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Status returns the lifecycle state and the error of the last failed run.
func (s *Session) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// Snapshot returns the current state for reporting.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Status: s.status, Mode: s.mode}
	if s.source != nil {
		snap.SourceWidth = s.source.Width()
		snap.SourceHeight = s.source.Height()
		snap.SourceFormat = s.source.Format
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}

// Output returns one slice of the current result by 0-based index.
func (s *Session) Output(i int) (*imaging.EncodedOutput, error) {
	result, ok := s.Result()
	if !ok {
		return nil, ErrNoResult
	}
	return result.Output(i)
}

// Reset clears the source and result and restores the default mode.
// Any run still in flight is discarded when it finishes.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generation++
	s.source = nil
	s.result = nil
	s.lastErr = nil
	s.status = StatusEmpty
	s.mode = s.defaultMode
	s.mu.Unlock()

	s.logger.Info("session reset")
}
