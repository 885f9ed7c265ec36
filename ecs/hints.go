package ecs

import (
	"io"

	"github.com/plus3/ecspool/alloc"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Hints tune the default chunked storage of a component type.
type Hints struct {
	// BlockSize is the number of components per storage block.
	BlockSize int `yaml:"block_size"`
	// AutoResize lets the pool add blocks as it fills. When false the pool
	// is capped at a single block.
	AutoResize bool `yaml:"auto_resize"`
}

// DefaultHints is used for component types that declare nothing.
var DefaultHints = Hints{BlockSize: alloc.DefaultChunkSize, AutoResize: true}

// HintProvider is implemented by component types that want non-default
// storage. The method is called on the zero value.
//
//	func (Particle) ComponentHints() ecs.Hints {
//		return ecs.Hints{BlockSize: 1024, AutoResize: true}
//	}
type HintProvider interface {
	ComponentHints() Hints
}

func (h Hints) normalized() Hints {
	if h.BlockSize <= 0 {
		h.BlockSize = DefaultHints.BlockSize
	}
	return h
}

func (h Hints) maxChunks() int {
	if h.AutoResize {
		return 0
	}
	return 1
}

// HintTable maps component type names, as printed by reflect.Type.String
// (e.g. "game.Position"), to hint overrides.
type HintTable map[string]Hints

type hintFile struct {
	Components map[string]*hintEntry `yaml:"components"`
}

type hintEntry struct {
	BlockSize  int   `yaml:"block_size"`
	AutoResize *bool `yaml:"auto_resize"`
}

// LoadHintTable reads a YAML hint table:
//
//	components:
//	  game.Position:
//	    block_size: 256
//	  game.Boss:
//	    block_size: 4
//	    auto_resize: false
//
// Omitted fields take their DefaultHints value.
func LoadHintTable(r io.Reader) (HintTable, error) {
	var file hintFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return HintTable{}, nil
		}
		return nil, eris.Wrap(err, "decode hint table")
	}

	table := make(HintTable, len(file.Components))
	for name, entry := range file.Components {
		h := DefaultHints
		if entry != nil {
			if entry.BlockSize < 0 {
				return nil, eris.Errorf("component %s: block_size cannot be negative", name)
			}
			if entry.BlockSize > 0 {
				h.BlockSize = entry.BlockSize
			}
			if entry.AutoResize != nil {
				h.AutoResize = *entry.AutoResize
			}
		}
		table[name] = h
	}
	return table, nil
}
