package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/config"
	"voxelstream/internal/graphics"
	"voxelstream/internal/pipeline"
	"voxelstream/internal/registry"
	"voxelstream/internal/terrain"
	"voxelstream/internal/world"
)

// App bundles everything the game loop touches.
type App struct {
	Config   config.Config
	Camera   *graphics.Camera
	Pipeline *pipeline.Pipeline
	Renderer *graphics.ChunkRenderer
	Atlas    *graphics.Atlas
	Registry *registry.Registry

	ShowProfiling bool

	firstMouse   bool
	lastX, lastY float64
}

func setupWindow(cfg config.Config) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.WindowWidth, cfg.WindowHeight, cfg.WindowTitle, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	glfw.SwapInterval(1)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.53, 0.71, 0.92, 1.0)

	return window, nil
}

// setupApp loads all assets and starts the streaming pipeline. Any missing
// or malformed asset fails startup here rather than mid-game.
func setupApp(cfg config.Config) (*App, error) {
	atlas := graphics.NewAtlas(cfg.TextureDir, 16, 16)
	reg, err := registry.Load(cfg.BlocksPath, atlas)
	if err != nil {
		return nil, fmt.Errorf("block registry: %w", err)
	}
	atlas.Upload()

	params, err := terrain.LoadParams(cfg.TerrainPath)
	if err != nil {
		return nil, fmt.Errorf("terrain params: %w", err)
	}
	palette, err := terrain.PaletteFromRegistry(reg)
	if err != nil {
		return nil, fmt.Errorf("terrain palette: %w", err)
	}
	surface, err := terrain.NewNoiseSurface(cfg.Seed, params, palette)
	if err != nil {
		return nil, fmt.Errorf("terrain sampler: %w", err)
	}

	shader, err := graphics.NewShader(
		filepath.Join(cfg.ShaderDir, "chunk.vert"),
		filepath.Join(cfg.ShaderDir, "chunk.frag"),
	)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}

	renderer := graphics.NewChunkRenderer(shader, atlas)
	store := world.NewChunkStore()
	pipe := pipeline.New(store, reg, surface, renderer, pipeline.Options{
		LoadRadius:     cfg.RenderDistance,
		EvictRadius:    cfg.EvictRadius,
		GenWorkers:     cfg.GenWorkers,
		MeshWorkers:    cfg.MeshWorkers,
		UploadsPerTick: cfg.UploadsPerTick,
	})

	spawn := mgl32.Vec3{0, float32(world.ChunkHeight)*0.6 + 8, 0}
	camera := graphics.NewCamera(spawn, cfg.WindowWidth, cfg.WindowHeight)

	return &App{
		Config:     cfg,
		Camera:     camera,
		Pipeline:   pipe,
		Renderer:   renderer,
		Atlas:      atlas,
		Registry:   reg,
		firstMouse: true,
	}, nil
}

// Tick advances the streaming pipeline around the camera.
func (a *App) Tick() {
	a.Pipeline.Update(a.Camera.Position)
}

// Draw clears the frame and renders the resident chunks.
func (a *App) Draw() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	a.Pipeline.Render(a.Camera.ProjectionMatrix(), a.Camera.ViewMatrix())
}

// ReloadTerrain re-reads the terrain parameter file and regenerates every
// resident chunk with a fresh sampler. Bound to the R key for tuning.
func (a *App) ReloadTerrain() error {
	params, err := terrain.LoadParams(a.Config.TerrainPath)
	if err != nil {
		return err
	}
	palette, err := terrain.PaletteFromRegistry(a.Registry)
	if err != nil {
		return err
	}
	surface, err := terrain.NewNoiseSurface(a.Config.Seed, params, palette)
	if err != nil {
		return err
	}
	a.Pipeline.ReloadAll(surface)
	return nil
}

// Close shuts the pipeline down and frees GPU resources.
func (a *App) Close() {
	a.Pipeline.Close()
	a.Renderer.Cleanup()
	a.Atlas.Delete()
}
