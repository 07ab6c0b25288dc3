/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package scene

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dimgraph/dimgraph"
	"github.com/dimgraph/dimgraph/props"
)

// File is the top-level shape of a scene document.
type File struct {
	Dimensions []DimensionSpec `yaml:"dimensions"`
}

// DimensionSpec declares one dimension and the entities created in it.
type DimensionSpec struct {
	Name     string       `yaml:"name"`
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec declares one entity. Children nest; they are linked to their
// parent with AddChild after creation.
type EntitySpec struct {
	ID       string         `yaml:"id"`
	Kind     string         `yaml:"kind"`
	Name     string         `yaml:"name"`
	Position string         `yaml:"position"`
	Props    map[string]any `yaml:"props"`
	Children []EntitySpec   `yaml:"children"`
}

// Load reads a YAML scene document and builds its dimensions and entities
// in the given registry. Explicit id collisions surface the underlying
// DuplicateIDError.
func Load(r io.Reader, reg *dimgraph.Registry) ([]*dimgraph.Dimension, error) {
	var file File
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return build(file, reg)
}

// LoadFile is Load over a file path.
func LoadFile(path string, reg *dimgraph.Registry) ([]*dimgraph.Dimension, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, reg)
}

func build(file File, reg *dimgraph.Registry) ([]*dimgraph.Dimension, error) {
	dims := make([]*dimgraph.Dimension, 0, len(file.Dimensions))
	for _, spec := range file.Dimensions {
		dim := reg.NewDimension(spec.Name, spec.Width, spec.Height)
		for _, es := range spec.Entities {
			if _, err := buildEntity(dim, es, nil); err != nil {
				return nil, fmt.Errorf("dimension %q: %w", spec.Name, err)
			}
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

func buildEntity(dim *dimgraph.Dimension, spec EntitySpec, parent *dimgraph.Entity) (*dimgraph.Entity, error) {
	kind := spec.Kind
	if kind == "" {
		kind = dimgraph.KindGroup
	}
	e, err := dim.CreateEntityWithID(spec.ID, kind, spec.Name, spec.Position, props.FromAnyMap(spec.Props))
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", spec.Name, err)
	}
	if parent != nil {
		parent.AddChild(e)
	}
	for _, child := range spec.Children {
		if _, err := buildEntity(dim, child, e); err != nil {
			return nil, err
		}
	}
	return e, nil
}
