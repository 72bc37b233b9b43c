package carve

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/randomouscrap98/recovermov/mov"
	"github.com/randomouscrap98/recovermov/units"
)

const (
	DefaultBlockSize    = 512
	DefaultMaxChunkSize = 100 * units.MiB
	DefaultBase         = "video_"
	DefaultStartIndex   = 1
)

// Config is everything a recovery run needs to know. It is not modified
// once the Engine has been created.
type Config struct {
	BlockSize    uint64 // scan granularity; movies must start on a block boundary
	MaxChunkSize uint64 // atoms larger than this are treated as garbage
	Base         string // output filename prefix
	Directory    string // optional output directory
	StartIndex   int    // number of the first recovered file
	DryRun       bool   // scan and count, but create no files
}

// DefaultConfig returns the settings the command line tool starts from.
func DefaultConfig() Config {
	return Config{
		BlockSize:    DefaultBlockSize,
		MaxChunkSize: DefaultMaxChunkSize,
		Base:         DefaultBase,
		StartIndex:   DefaultStartIndex,
	}
}

func (c Config) Validate() error {
	if c.BlockSize == 0 {
		return errors.New("block size must be positive")
	}
	if c.MaxChunkSize < mov.HeaderSize {
		return fmt.Errorf("max chunk size must be at least %d bytes", mov.HeaderSize)
	}
	return nil
}

// OutputName is the path of the n-th (zero based) recovered movie.
func (c Config) OutputName(n int) string {
	name := fmt.Sprintf("%s%d.mov", c.Base, c.StartIndex+n)
	if c.Directory != "" {
		name = filepath.Join(c.Directory, name)
	}
	return name
}
