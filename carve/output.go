package carve

import (
	"io"
	"os"
)

// Output creates the files recovered movies are written to.
type Output interface {
	Create(name string) (io.WriteCloser, error)
}

// FileOutput writes recovered movies to the local filesystem.
type FileOutput struct{}

func (FileOutput) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Stand-in sink for dry runs
type discardSink struct{}

func (discardSink) Write(p []byte) (int, error) { return len(p), nil }
func (discardSink) Close() error                { return nil }
