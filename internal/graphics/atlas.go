package graphics

import (
	"hash/fnv"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	xdraw "golang.org/x/image/draw"

	"voxelstream/internal/registry"
)

// Atlas packs block tile textures into one grid image and serves UV
// rectangles by tile name. Tiles are assigned lazily the first time a name
// is looked up, so the registry drives which textures get loaded. Building
// the image is pure CPU work; Upload pushes it to GL afterwards.
type Atlas struct {
	dir      string
	tileSize int
	gridSize int // tiles per row and per column

	img     *image.RGBA
	tiles   map[string]registry.UVRect
	next    int
	texture uint32
}

// NewAtlas creates an empty atlas backed by tile images under dir.
func NewAtlas(dir string, tileSize, gridSize int) *Atlas {
	px := tileSize * gridSize
	return &Atlas{
		dir:      dir,
		tileSize: tileSize,
		gridSize: gridSize,
		img:      image.NewRGBA(image.Rect(0, 0, px, px)),
		tiles:    make(map[string]registry.UVRect),
	}
}

// UVRect returns the UV rectangle for a tile name, loading and packing the
// tile on first use. A missing or undecodable image falls back to a solid
// color so a bad asset never takes the whole registry down. Returns false
// only when the grid is full.
func (a *Atlas) UVRect(name string) (registry.UVRect, bool) {
	if uv, ok := a.tiles[name]; ok {
		return uv, true
	}
	if a.next >= a.gridSize*a.gridSize {
		return registry.UVRect{}, false
	}
	cell := a.next
	a.next++

	tx := (cell % a.gridSize) * a.tileSize
	ty := (cell / a.gridSize) * a.tileSize
	dst := image.Rect(tx, ty, tx+a.tileSize, ty+a.tileSize)

	if src, err := loadTileImage(filepath.Join(a.dir, name+".png")); err == nil {
		xdraw.NearestNeighbor.Scale(a.img, dst, src, src.Bounds(), xdraw.Src, nil)
	} else {
		log.Printf("atlas: tile %q: %v, using fallback color", name, err)
		fillRect(a.img, dst, fallbackColor(name))
	}

	// Inset by half a texel so neighboring tiles never bleed through
	// linear filtering at quad edges.
	px := float32(a.gridSize * a.tileSize)
	inset := float32(0.5) / px
	uv := registry.UVRect{
		MinU: float32(tx)/px + inset,
		MinV: float32(ty)/px + inset,
		MaxU: float32(tx+a.tileSize)/px - inset,
		MaxV: float32(ty+a.tileSize)/px - inset,
	}
	a.tiles[name] = uv
	return uv, true
}

// TileCount reports how many tiles have been packed.
func (a *Atlas) TileCount() int {
	return a.next
}

// Upload creates the GL texture from the packed image. Must run on the
// thread that owns the GL context, after all tiles are packed.
func (a *Atlas) Upload() {
	gl.GenTextures(1, &a.texture)
	gl.BindTexture(gl.TEXTURE_2D, a.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	size := int32(a.gridSize * a.tileSize)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(a.img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Bind binds the atlas texture to a texture unit.
func (a *Atlas) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, a.texture)
}

// Delete releases the GL texture.
func (a *Atlas) Delete() {
	if a.texture != 0 {
		gl.DeleteTextures(1, &a.texture)
		a.texture = 0
	}
}

func loadTileImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// fallbackColor derives a stable debug color from the tile name.
func fallbackColor(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	v := h.Sum32()
	return color.RGBA{
		R: 64 + uint8(v)%160,
		G: 64 + uint8(v>>8)%160,
		B: 64 + uint8(v>>16)%160,
		A: 255,
	}
}
