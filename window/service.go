// Package window hosts the mascot in a GLFW window with an OpenGL 4.1 core
// context. Cursor movement anywhere over the window is published on the
// pointer hub in window coordinates.
//
// GLFW requires every call to come from the main OS thread; the binary must
// lock it before Init and drive PollEvents and Draw from the same goroutine.
package window

import (
	"fmt"
	"log"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/config"
	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/render"
	"github.com/lixenwraith/robotrak/vmath"
)

// Source tags pointer events published by this host
const Source = "window"

const floatSize = 4

func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Service owns the GLFW window, GL context and mesh buffers
type Service struct {
	hub   *pointer.Hub
	title string
	cfg   config.WindowConfig

	win         *glfw.Window
	prog        uint32
	vao, vbo    uint32
	vboBytes    int
	uResolution int32
	mesh        render.Mesh

	inited  bool
	stopped bool
}

// NewService creates a window service publishing on hub
func NewService(hub *pointer.Hub, title string) *Service {
	return &Service{
		hub:   hub,
		title: title,
		cfg:   config.Defaults().Window,
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "window"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: config.WindowConfig (optional)
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if c, ok := args[0].(config.WindowConfig); ok {
			s.cfg = c
		}
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.StencilBits, 8)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(s.cfg.Width, s.cfg.Height, s.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return fmt.Errorf("gl init: %w", err)
	}

	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return fmt.Errorf("mesh program: %w", err)
	}
	s.win = win
	s.prog = prog
	s.uResolution = gl.GetUniformLocation(prog, gl.Str("uResolution\x00"))

	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	stride := int32(render.VertexStride * floatSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, glOffset(2*floatSize))

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)

	win.SetCursorPosCallback(s.onCursor)
	win.SetKeyCallback(s.onKey)

	s.inited = true
	log.Printf("window: %dx%d, %s", s.cfg.Width, s.cfg.Height, gl.GoStr(gl.GetString(gl.VERSION)))
	return nil
}

// Start implements service.Service
// Events are pumped by the main loop through PollEvents
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service - releases GL objects and the window
func (s *Service) Stop() error {
	if s.stopped || !s.inited {
		s.stopped = true
		return nil
	}
	s.stopped = true

	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.prog)
	s.win.Destroy()
	glfw.Terminate()
	return nil
}

// onCursor publishes window-space cursor positions
func (s *Service) onCursor(_ *glfw.Window, x, y float64) {
	s.hub.Publish(pointer.Event{
		Pos:    vmath.V(x, y),
		Time:   time.Now(),
		Source: Source,
	})
}

func (s *Service) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape || key == glfw.KeyQ {
		w.SetShouldClose(true)
	}
}

// ShouldClose reports whether the user closed the window
func (s *Service) ShouldClose() bool {
	return s.stopped || !s.inited || s.win.ShouldClose()
}

// PollEvents runs pending GLFW callbacks on the calling goroutine
func (s *Service) PollEvents() {
	glfw.PollEvents()
}

// WaitEvents blocks until an event arrives or timeout passes
func (s *Service) WaitEvents(timeout time.Duration) {
	glfw.WaitEventsTimeout(timeout.Seconds())
}

// Viewport fits a view box into the window's client area
// Window coordinates match the cursor callback, so pixels are square
func (s *Service) Viewport(vb artwork.ViewBox) render.Viewport {
	w, h := s.win.GetSize()
	return render.Viewport{
		ViewBox:     vb,
		Host:        render.Rect{W: float64(w), H: float64(h)},
		PixelAspect: 1,
	}
}

// Draw renders the scene and swaps buffers
func (s *Service) Draw(scene *render.Scene) {
	vp := s.Viewport(scene.Art.ViewBox)
	fbW, fbH := s.win.GetFramebufferSize()

	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	bg := scene.Art.Colors().Background
	r, g, b := bg.Floats()
	gl.ClearColor(r, g, b, 1)
	gl.ClearStencil(0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	if render.BuildMesh(&s.mesh, scene, vp, render.DefaultSegments) && len(s.mesh.Vertices) > 0 {
		s.upload()
		gl.UseProgram(s.prog)
		gl.Uniform2f(s.uResolution, float32(vp.Host.W), float32(vp.Host.H))
		gl.BindVertexArray(s.vao)
		for _, batch := range s.mesh.Batches {
			applyBatchState(batch)
			gl.DrawArrays(gl.TRIANGLES, int32(batch.First), int32(batch.Count))
		}
		gl.Disable(gl.STENCIL_TEST)
	}

	s.win.SwapBuffers()
}

// upload streams the mesh, growing the buffer when needed
func (s *Service) upload() {
	n := len(s.mesh.Vertices) * floatSize
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	if n > s.vboBytes {
		gl.BufferData(gl.ARRAY_BUFFER, n, gl.Ptr(&s.mesh.Vertices[0]), gl.STREAM_DRAW)
		s.vboBytes = n
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n, gl.Ptr(&s.mesh.Vertices[0]))
}

func applyBatchState(b render.Batch) {
	gl.Enable(gl.BLEND)
	if b.Blend == artwork.BlendMultiply {
		gl.BlendFunc(gl.DST_COLOR, gl.ZERO)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	switch b.Stencil {
	case render.StencilWrite:
		gl.Enable(gl.STENCIL_TEST)
		gl.Clear(gl.STENCIL_BUFFER_BIT)
		gl.StencilFunc(gl.ALWAYS, 1, 0xFF)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
	case render.StencilTest:
		gl.Enable(gl.STENCIL_TEST)
		gl.StencilFunc(gl.EQUAL, 1, 0xFF)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
	default:
		gl.Disable(gl.STENCIL_TEST)
	}
}
