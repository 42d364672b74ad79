package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"voxelstream/internal/config"
	"voxelstream/internal/profiling"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "assets/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg)
	if err != nil {
		log.Fatalf("window: %v", err)
	}

	app, err := setupApp(cfg)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
	defer app.Close()

	setupInputHandlers(window, app)
	runLoop(window, app)
}

func runLoop(window *glfw.Window, app *App) {
	frames := 0
	lastFPSCheck := time.Now()
	lastTime := time.Now()

	for !window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		app.HandleMovement(window, dt)
		app.Tick()
		app.Draw()

		window.SwapBuffers()
		glfw.PollEvents()

		frames++
		if time.Since(lastFPSCheck) >= time.Second {
			fmt.Printf("FPS: %d  chunks: %d  in-flight: %d\n",
				frames, app.Pipeline.Store().Len(), app.Pipeline.PendingCount())
			if app.ShowProfiling {
				fmt.Println("  " + profiling.TopN(5))
			}
			frames = 0
			lastFPSCheck = time.Now()
		}
	}
}
