// Package carve scans a raw byte source (disk image, block device) for
// QuickTime movies and writes each one it finds to its own file.
package carve

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/randomouscrap98/recovermov/mov"
)

// LevelTrace is used for per-atom logging, which is far too noisy for debug.
const LevelTrace = slog.Level(-8)

// Recovered describes one movie written (or, in a dry run, found).
type Recovered struct {
	Filename string
	Offset   int64    // where the movie starts in the source
	Size     int64    // bytes copied
	MD5      string   // of the copied bytes
	Atoms    []string // types of the copied atoms, in order
}

// Summary is the result of a run.
type Summary struct {
	Recovered int
	Files     []Recovered
	Scanned   int64 // how far into the source the scan got
	DryRun    bool
}

type state int

const (
	stateScanning state = iota
	stateRecovering
)

// Engine walks the source one block at a time looking for the ftyp atom
// that starts a QuickTime movie. When it finds one, it copies that atom and
// every valid atom directly following it into a new file, then continues
// scanning at the first block boundary past the copied region.
type Engine struct {
	src      io.ReadSeeker
	cfg      Config
	output   Output
	progress Progress
	logger   *slog.Logger

	chunks  *mov.ChunkReader
	state   state
	cursor  uint64
	pending mov.Chunk // the ftyp atom that switched us to recovering
	summary Summary
}

type Option func(*Engine)

// WithOutput replaces the filesystem as the destination for recovered files.
// It is never used in dry runs.
func WithOutput(o Output) Option {
	return func(e *Engine) { e.output = o }
}

func WithProgress(p Progress) Option {
	return func(e *Engine) { e.progress = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine reading from src. The engine owns the read position
// of src until Run returns.
func New(src io.ReadSeeker, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		src:      src,
		cfg:      cfg,
		output:   FileOutput{},
		progress: NopProgress{},
		logger:   slog.New(slog.DiscardHandler),
		chunks:   mov.NewChunkReader(src, cfg.MaxChunkSize),
		state:    stateScanning,
		summary:  Summary{DryRun: cfg.DryRun},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run scans the whole source. Reaching the end of the source is the normal
// way for a run to finish and is not an error. Any other I/O failure stops
// the run; the returned summary still describes everything recovered so far.
// Each call starts a fresh scan from offset 0.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	e.state = stateScanning
	e.cursor = 0
	e.pending = mov.Chunk{}
	e.summary = Summary{DryRun: e.cfg.DryRun}

	total, err := e.src.Seek(0, io.SeekEnd)
	if err != nil {
		return e.summary, fmt.Errorf("find source length: %w", err)
	}
	e.progress.Start(total)
	defer e.progress.Finish()

	for {
		if err := ctx.Err(); err != nil {
			return e.finish(total), err
		}
		switch e.state {
		case stateScanning:
			done, err := e.scan()
			if err != nil {
				return e.finish(total), err
			}
			if done {
				return e.finish(total), nil
			}
		case stateRecovering:
			if err := e.recoverMovie(ctx); err != nil {
				return e.finish(total), err
			}
		}
	}
}

func (e *Engine) finish(total int64) Summary {
	e.summary.Scanned = min(int64(e.cursor), total)
	return e.summary
}

// Probe the block at the cursor. Returns true once the source is exhausted.
func (e *Engine) scan() (bool, error) {
	e.progress.Update(int64(e.cursor))
	if _, err := e.src.Seek(int64(e.cursor), io.SeekStart); err != nil {
		return false, fmt.Errorf("seek to %d: %w", e.cursor, err)
	}
	c, ok, err := e.chunks.Next()
	if mov.IsTruncated(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if !ok || !c.IsMovieStart() {
		e.cursor += e.cfg.BlockSize
		return false, nil
	}
	e.pending = c
	e.state = stateRecovering
	return false, nil
}

func (e *Engine) openSink(name string) (io.WriteCloser, error) {
	if e.cfg.DryRun {
		return discardSink{}, nil
	}
	w, err := e.output.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return w, nil
}

// Copy the pending ftyp atom and every valid atom after it into a new file.
// The episode ends at the first thing that isn't an atom, or at the end of
// the source. Either way the file is closed and scanning resumes.
func (e *Engine) recoverMovie(ctx context.Context) (err error) {
	start := e.cursor
	name := e.cfg.OutputName(e.summary.Recovered)
	e.summary.Recovered++
	e.logger.Info("found movie", "offset", start)
	e.logger.Debug("creating output file", "file", name, "dry_run", e.cfg.DryRun)

	rec := Recovered{Filename: name, Offset: int64(start)}
	sink, err := e.openSink(name)
	if err != nil {
		return err
	}
	hash := md5.New()
	w := io.MultiWriter(sink, hash)
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
		rec.MD5 = hex.EncodeToString(hash.Sum(nil))
		e.summary.Files = append(e.summary.Files, rec)
		e.cursor = NextCursor(start, uint64(rec.Size), e.cfg.BlockSize)
		e.state = stateScanning
	}()

	c := e.pending
	for {
		e.logger.Log(ctx, LevelTrace, "copying atom",
			"type", c.Type.String(), "size", len(c.Data), "dry_run", e.cfg.DryRun)
		if _, err := w.Write(c.Data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		rec.Size += int64(len(c.Data))
		rec.Atoms = append(rec.Atoms, c.Type.String())

		if err := ctx.Err(); err != nil {
			return err
		}
		var ok bool
		c, ok, err = e.chunks.Next()
		if mov.IsTruncated(err) || (err == nil && !ok) {
			break
		}
		if err != nil {
			return err
		}
	}
	e.logger.Info("recovered movie", "file", name, "size", rec.Size)
	return nil
}
