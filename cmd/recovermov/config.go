package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml"
)

// tomlResolver supplies flag values from a TOML file. Keys are flag names,
// written with either dashes or underscores:
//
//	block-size = "4k"
//	max_chunk_size = "2GiB"
//	directory = "recovered"
type tomlResolver struct {
	tree *toml.Tree
}

func tomlLoader(r io.Reader) (kong.Resolver, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &tomlResolver{tree: tree}, nil
}

func (r *tomlResolver) Validate(app *kong.Application) error {
	return nil
}

func (r *tomlResolver) Resolve(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
	for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if !r.tree.Has(key) {
			continue
		}
		// Everything goes back through the flag's own decoder, so sizes
		// keep their suffix grammar.
		switch v := r.tree.Get(key).(type) {
		case string, bool, int64, float64:
			return fmt.Sprint(v), nil
		default:
			return nil, fmt.Errorf("config key %q: unsupported value %v", key, v)
		}
	}
	return nil, nil
}
