// Package desktop is the interactive host: an SDL window with an OpenGL
// context, the renderer and an orbit camera around the simulated pool.
package desktop

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/app"
	"github.com/Faultbox/wavepool/internal/config"
	"github.com/Faultbox/wavepool/internal/engine/agent"
	"github.com/Faultbox/wavepool/internal/engine/camera"
	"github.com/Faultbox/wavepool/internal/engine/frame"
	"github.com/Faultbox/wavepool/internal/engine/gpu"
	"github.com/Faultbox/wavepool/internal/engine/input"
	"github.com/Faultbox/wavepool/internal/engine/lighting"
	"github.com/Faultbox/wavepool/internal/engine/picking"
	"github.com/Faultbox/wavepool/internal/engine/renderer"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/engine/window"
	"github.com/Faultbox/wavepool/internal/logger"
)

// New creates the window, the simulation on the selected kernel and the
// renderer, and returns a started App.
func New(cfg *config.Config) (*app.App, error) {
	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.OnClose(win.Close)

	params := a.Params()
	var sim frame.Simulation
	if cfg.Simulation.GPU {
		g, err := gpu.New(params, a.Initial(), a.Coupler().Simulation(), cfg.Simulation.Readback)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create GPU simulation: %w", err)
		}
		a.OnClose(g.Close)
		sim = g
	} else {
		host, err := water.NewSimulator(params, a.Initial(), cfg.Simulation.Workers)
		if err != nil {
			a.Close()
			return nil, err
		}
		sim = host
	}

	cam := camera.NewOrbitCamera()
	cam.FitToBounds(params.Bounds, cfg.Simulation.WaterLevel)

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := win.DrawableSize()
	sun := lighting.Sun{Longitude: cfg.Window.SunLongitude, Latitude: cfg.Window.SunLatitude}
	r, err := renderer.New(renderer.Config{Width: width, Height: height, Sun: sun}, renderer.Scene{
		Water:     water.BuildMesh(params.Width, params.Bounds),
		Agent:     agent.BuildSphere(cfg.Agent.Radius, 16, 32),
		Camera:    cam,
		WaterSet:  a.Coupler().Water(),
		AgentSet:  a.Coupler().Agent(),
		GridWidth: params.Width,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.OnClose(r.Close)

	if err := a.Start(sim, r, win); err != nil {
		a.Close()
		return nil, err
	}
	a.Driver().AddObserver(&frame.RateObserver{
		Report: func(fps float64, n uint64) {
			win.SetTitle(fmt.Sprintf("%s - %.0f fps - frame %d", cfg.Window.Title, fps, n))
		},
	})

	var gestures input.Gestures
	level := cfg.Simulation.WaterLevel
	win.OnEvent = func(e input.Event) {
		switch {
		case e.Type == input.EventWindowResize:
			r.Resize(win.DrawableSize())
		case e.Type == input.EventMouseDown && e.Button == sdl.BUTTON_RIGHT && a.Seek() != nil:
			w, h := win.Size()
			if x, z, ok := pickWater(cam, e.MouseX, e.MouseY, w, h, level); ok {
				a.Seek().SetDestination(x, z)
				logger.Debug("agent destination", zap.Float32("x", x), zap.Float32("z", z))
			}
		default:
			gestures.Handle(e, cam)
		}
	}

	logger.Info("windowed host ready", zap.Bool("gpu", cfg.Simulation.GPU), zap.Bool("readback", cfg.Simulation.Readback))
	return a, nil
}

// pickWater casts the cursor position onto the water plane.
func pickWater(cam *camera.OrbitCamera, mouseX, mouseY, width, height int, level float32) (x, z float32, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	viewProj := cam.ProjectionMatrix(float32(width) / float32(height)).Mul(cam.ViewMatrix())
	inv, ok := viewProj.Inverse()
	if !ok {
		return 0, 0, false
	}
	ray := picking.ScreenToRay(float32(mouseX), float32(mouseY), float32(width), float32(height), inv)
	return ray.IntersectPlaneY(level)
}
