package main

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	moveSpeed        = 24.0 // blocks per second
	fastMultiplier   = 4.0
	mouseSensitivity = 0.1
)

func setupInputHandlers(window *glfw.Window, app *App) {
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if app.firstMouse {
			app.lastX, app.lastY = xpos, ypos
			app.firstMouse = false
		}
		dx := float32(xpos-app.lastX) * mouseSensitivity
		dy := float32(app.lastY-ypos) * mouseSensitivity
		app.lastX, app.lastY = xpos, ypos
		app.Camera.Rotate(dx, dy)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyR:
			if err := app.ReloadTerrain(); err != nil {
				log.Printf("terrain reload: %v", err)
			} else {
				log.Printf("terrain reloaded, regenerating %d chunks", app.Pipeline.Store().Len())
			}
		case glfw.KeyV:
			app.ShowProfiling = !app.ShowProfiling
		}
	})
}

// HandleMovement polls held movement keys each frame.
func (a *App) HandleMovement(window *glfw.Window, dt float32) {
	speed := float32(moveSpeed) * dt
	if window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		speed *= fastMultiplier
	}

	var forward, right, up float32
	if window.GetKey(glfw.KeyW) == glfw.Press {
		forward += speed
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		forward -= speed
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		right += speed
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		right -= speed
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		up += speed
	}
	if window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		up -= speed
	}
	a.Camera.Move(forward, right, up)
}
