package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/audio"
	"github.com/lixenwraith/robotrak/config"
	"github.com/lixenwraith/robotrak/engine"
	"github.com/lixenwraith/robotrak/gaze"
	"github.com/lixenwraith/robotrak/logging"
	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/render"
	"github.com/lixenwraith/robotrak/service"
	"github.com/lixenwraith/robotrak/vmath"
	"github.com/lixenwraith/robotrak/window"
)

func init() {
	// GLFW and GL calls must stay on the main OS thread
	runtime.LockOSThread()
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ROBOTRAK CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "robotrak-window: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags) error {
	cfg, err := flags.Load()
	if err != nil {
		return err
	}

	logFile, err := logging.Setup(cfg.Log.Debug, cfg.Log.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "robotrak-window: logging disabled: %v\n", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	art, err := artwork.Open(cfg.Artwork.Path)
	if err != nil {
		return err
	}

	hub := pointer.NewHub()
	winSvc := window.NewService(hub, "RoboTrak")
	audioSvc := audio.NewService()

	surface := gaze.SurfaceFunc(func() (vmath.Affine, bool) {
		return winSvc.Viewport(art.ViewBox).ScreenCTM()
	})
	tracking := engine.NewTrackingService(hub, art.Face(), surface, winSvc.Name(), audioSvc.Name())
	tracking.OnUpdate(func(o gaze.FaceOffsets) { audioSvc.Observe(o) })

	services := service.NewHub()
	for _, reg := range []struct {
		svc  service.Service
		args []any
	}{
		{winSvc, []any{cfg.Window}},
		{audioSvc, []any{cfg.Audio}},
		{tracking, []any{cfg.Gaze.Smoothing}},
	} {
		if err := services.Register(reg.svc, reg.args...); err != nil {
			return err
		}
	}

	if err := services.InitAll(); err != nil {
		return err
	}
	if err := services.StartAll(); err != nil {
		return err
	}
	defer services.StopAll()

	log.Printf("robotrak-window: services %v", services.Order())

	scene := render.NewScene(art)
	frame := cfg.FrameInterval()
	for !winSvc.ShouldClose() {
		// Cursor callbacks run here, on the locked thread
		winSvc.WaitEvents(frame)
		scene.Offsets, _ = tracking.Frame()
		winSvc.Draw(scene)
	}
	return nil
}
