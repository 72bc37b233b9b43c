// Command recovermov recovers QuickTime movies from a raw disk image or device.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/randomouscrap98/recovermov/carve"
)

const (
	AppVersion = "0.3.0"
)

type recoverCmd struct {
	BlockSize    byteSizeFlag `short:"b" default:"512" help:"Block size in bytes (accepts k/m/g/t, kb, kib...)"`
	Base         string       `short:"n" default:"video_" help:"Base name of the mov files to create"`
	DryRun       bool         `help:"Do not write recovered files"`
	Index        int          `short:"i" default:"1" help:"Initial movie index"`
	MaxChunkSize mebiSizeFlag `short:"m" default:"100" help:"Maximum atom size, bare numbers are MiB (default: 100)"`
	Directory    string       `short:"o" type:"path" help:"Restore mov files into this directory"`
	Progress     bool         `short:"p" help:"Show progress indicator"`
	Json         bool         `help:"Print a summary of recovered files as json on stdout"`
	LogLevel     string       `enum:"trace,debug,info,warn,error" default:"info" help:"Logging level (${enum})"`

	Config  kong.ConfigFlag  `help:"Load defaults from this TOML file"`
	Version kong.VersionFlag `help:"Show version information"`

	File string `arg:"" type:"existingfile" help:"File or device to restore from"`
}

func (c *recoverCmd) config() carve.Config {
	return carve.Config{
		BlockSize:    uint64(c.BlockSize),
		MaxChunkSize: uint64(c.MaxChunkSize),
		Base:         c.Base,
		Directory:    c.Directory,
		StartIndex:   c.Index,
		DryRun:       c.DryRun,
	}
}

func (c *recoverCmd) Run(ctx context.Context) error {
	logger := newLogger(os.Stderr, c.LogLevel)
	cfg := c.config()

	if cfg.Directory != "" && !cfg.DryRun {
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	var progress carve.Progress = carve.NopProgress{}
	if c.Progress && term.IsTerminal(int(os.Stderr.Fd())) {
		progress = newTerminalProgress(os.Stderr)
	}
	engine, err := carve.New(f, cfg, carve.WithLogger(logger), carve.WithProgress(progress))
	if err != nil {
		return err
	}
	summary, err := engine.Run(ctx)
	if err != nil {
		logger.Error("recovery stopped", "error", err, "offset", summary.Scanned)
	}
	logger.Info("files recovered", "count", summary.Recovered, "dry_run", cfg.DryRun)
	if c.Json {
		if jerr := printJson(os.Stdout, summary); jerr != nil && err == nil {
			err = jerr
		}
	}
	return err
}

func newParser(cli *recoverCmd, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("recovermov"),
		kong.ShortUsageOnError(),
		kong.Description("Recover QuickTime movies from a disk image or device"),
		kong.Configuration(tomlLoader, "~/.config/recovermov.toml", "recovermov.toml"),
		kong.Vars{
			"version": AppVersion,
		},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli recoverCmd
	parser, err := newParser(&cli, kong.BindTo(sigctx, (*context.Context)(nil)))
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
