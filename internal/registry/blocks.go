// Package registry loads the block definition registry: per-id opacity,
// solidity and face texture coordinates. The registry is loaded once at
// startup, before any generation or meshing work, and is read-only for
// the rest of the session.
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"voxelstream/internal/world"
)

// UVRect is a texture-atlas sub-rectangle in normalized coordinates.
type UVRect struct {
	MinU, MinV float32
	MaxU, MaxV float32
}

// UVLookup resolves a texture name to its atlas rectangle; satisfied by
// the graphics texture atlas.
type UVLookup interface {
	UVRect(name string) (UVRect, bool)
}

// BlockDefinition describes one block material.
type BlockDefinition struct {
	ID      world.BlockID
	Name    string
	Opaque  bool
	Solid   bool
	FaceUVs [world.FaceCount]UVRect
}

// Registry is the block database keyed by id. Unknown ids resolve to air.
type Registry struct {
	blocks []BlockDefinition
	byName map[string]world.BlockID
	air    BlockDefinition
}

// registry JSON document layout
type registryFile struct {
	Blocks []struct {
		ID       uint16 `json:"id"`
		Name     string `json:"name"`
		Opaque   *bool  `json:"opaque"`
		Solid    *bool  `json:"solid"`
		Textures struct {
			All    string `json:"all"`
			Top    string `json:"top"`
			Bottom string `json:"bottom"`
			Side   string `json:"side"`
		} `json:"textures"`
	} `json:"blocks"`
}

// Load reads a block registry JSON file and resolves every referenced
// texture against the atlas. Any inconsistency is an error: the pipeline
// must not start with a partial registry.
func Load(path string, uvs UVLookup) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read block registry: %w", err)
	}

	var doc registryFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("could not parse block registry %s: %w", path, err)
	}
	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("block registry %s defines no blocks", path)
	}

	r := &Registry{
		byName: make(map[string]world.BlockID, len(doc.Blocks)+1),
		air: BlockDefinition{
			ID:   world.BlockIDAir,
			Name: "air",
		},
	}
	r.byName["air"] = world.BlockIDAir

	for _, b := range doc.Blocks {
		if b.ID == 0 {
			return nil, fmt.Errorf("block %q claims id 0, which is reserved for air", b.Name)
		}
		if b.ID > 255 {
			return nil, fmt.Errorf("block %q id %d exceeds the 8-bit id space", b.Name, b.ID)
		}
		if b.Name == "" {
			return nil, fmt.Errorf("block id %d has no name", b.ID)
		}
		if _, dup := r.byName[b.Name]; dup {
			return nil, fmt.Errorf("duplicate block name %q", b.Name)
		}

		def := BlockDefinition{
			ID:     world.BlockID(b.ID),
			Name:   b.Name,
			Opaque: true,
			Solid:  true,
		}
		if b.Opaque != nil {
			def.Opaque = *b.Opaque
		}
		if b.Solid != nil {
			def.Solid = *b.Solid
		}

		if err := resolveFaceUVs(&def, b.Textures.All, b.Textures.Top, b.Textures.Bottom, b.Textures.Side, uvs); err != nil {
			return nil, err
		}

		if int(def.ID) >= len(r.blocks) {
			grown := make([]BlockDefinition, int(def.ID)+1)
			copy(grown, r.blocks)
			r.blocks = grown
		}
		r.blocks[def.ID] = def
		r.byName[def.Name] = def.ID
	}

	return r, nil
}

func resolveFaceUVs(def *BlockDefinition, all, top, bottom, side string, uvs UVLookup) error {
	lookup := func(texture string) (UVRect, error) {
		rect, ok := uvs.UVRect(texture)
		if !ok {
			return rect, fmt.Errorf("block %q references unknown texture %q", def.Name, texture)
		}
		return rect, nil
	}

	if all != "" {
		rect, err := lookup(all)
		if err != nil {
			return err
		}
		for f := range def.FaceUVs {
			def.FaceUVs[f] = rect
		}
		return nil
	}

	if top == "" || bottom == "" || side == "" {
		return fmt.Errorf("block %q needs either textures.all or top/bottom/side", def.Name)
	}
	topRect, err := lookup(top)
	if err != nil {
		return err
	}
	bottomRect, err := lookup(bottom)
	if err != nil {
		return err
	}
	sideRect, err := lookup(side)
	if err != nil {
		return err
	}
	def.FaceUVs[world.FaceTop] = topRect
	def.FaceUVs[world.FaceBottom] = bottomRect
	for _, f := range []world.BlockFace{world.FaceNorth, world.FaceSouth, world.FaceEast, world.FaceWest} {
		def.FaceUVs[f] = sideRect
	}
	return nil
}

// Block returns the definition for an id, air for unknown ids.
func (r *Registry) Block(id world.BlockID) *BlockDefinition {
	if int(id) < len(r.blocks) && r.blocks[id].Name != "" {
		return &r.blocks[id]
	}
	return &r.air
}

// IsOpaque reports whether the block id blocks light/faces behind it.
func (r *Registry) IsOpaque(id world.BlockID) bool {
	return r.Block(id).Opaque
}

// IsSolid reports whether the block id blocks movement.
func (r *Registry) IsSolid(id world.BlockID) bool {
	return r.Block(id).Solid
}

// FaceUV returns the atlas rectangle for one face of a block.
func (r *Registry) FaceUV(id world.BlockID, face world.BlockFace) UVRect {
	return r.Block(id).FaceUVs[face]
}

// IDByName resolves a block name to its id.
func (r *Registry) IDByName(name string) (world.BlockID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Len returns the number of defined blocks including air.
func (r *Registry) Len() int {
	return len(r.byName)
}
