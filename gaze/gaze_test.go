package gaze

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/vmath"
)

const tol = 1e-9

func TestSolveMascotScenarios(t *testing.T) {
	left := DefaultLeft()
	right := DefaultRight()

	tests := []struct {
		name  string
		eye   Eye
		local vmath.Vec2
		want  vmath.Vec2
		sat   bool
	}{
		{"left far right", left, vmath.V(1000, mascotEyeY), vmath.V(10.43, 0), true},
		{"left at center", left, left.Socket.Center, vmath.V(-6.16, 0), false},
		{"left far left", left, vmath.V(-1000, mascotEyeY), vmath.V(-16.59 - 6.16, 0), true},
		{"left far below", left, vmath.V(mascotLeftSocketX, 5000), vmath.V(-6.16, 62.88 - 45.65), true},
		{"left small move inside", left, vmath.V(mascotLeftSocketX+3, mascotEyeY), vmath.V(3-6.16, 0), false},
		{"right far left", right, vmath.V(-1000, mascotEyeY), vmath.V(-16.59 + 6.17, 0), true},
		{"right at center", right, right.Socket.Center, vmath.V(6.17, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := Solve(tt.local, tt.eye)
			if !sol.Offset.NearlyEqual(tt.want, 1e-6) {
				t.Errorf("offset = %+v, want %+v", sol.Offset, tt.want)
			}
			if sol.Saturated != tt.sat {
				t.Errorf("saturated = %v, want %v", sol.Saturated, tt.sat)
			}
		})
	}
}

func TestComputeOffsetThroughTransform(t *testing.T) {
	eye := DefaultLeft()
	// Artwork drawn at half scale, shifted by (40, 10)
	ctm := vmath.Translate(40, 10).Mul(vmath.ScaleXY(0.5, 0.5))

	screen := ctm.Apply(vmath.V(1000, mascotEyeY))
	got, ok := ComputeOffset(screen, ctm, eye)
	if !ok {
		t.Fatal("ComputeOffset reported non-invertible transform")
	}
	if !got.NearlyEqual(vmath.V(10.43, 0), 1e-6) {
		t.Errorf("offset = %+v, want (10.43, 0)", got)
	}

	if _, ok := ComputeOffset(screen, vmath.Affine{}, eye); ok {
		t.Error("zero matrix must not be invertible")
	}
}

// TestContainment sweeps random pointers and checks the pupil center never
// leaves the travel ellipse
func TestContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, eye := range []Eye{DefaultLeft(), DefaultRight()} {
		maxX, maxY := eye.Travel()
		for i := 0; i < 20000; i++ {
			local := vmath.V(rng.Float64()*4000-2000, rng.Float64()*4000-2000)
			if i%4 == 0 {
				// Dense near the socket
				local = eye.Socket.Center.Add(vmath.V(rng.Float64()*80-40, rng.Float64()*80-40))
			}
			sol := Solve(local, eye)
			c := eye.PupilCenter(sol.Offset).Sub(eye.Socket.Center)
			if d := vmath.EllipseDistSq(c.X, c.Y, maxX, maxY); d > 1+tol {
				t.Fatalf("%s eye: pointer %+v put pupil at normalized distance %v", eye.Name, local, d)
			}
		}
	}
}

// TestInsideFollowsExactly checks that a pointer within the travel ellipse
// places the pupil center on the pointer itself
func TestInsideFollowsExactly(t *testing.T) {
	eye := DefaultLeft()
	rng := rand.New(rand.NewSource(3))
	maxX, maxY := eye.Travel()
	for i := 0; i < 2000; i++ {
		d := vmath.V((rng.Float64()*2-1)*maxX, (rng.Float64()*2-1)*maxY)
		if !vmath.EllipseContains(d.X, d.Y, maxX, maxY) {
			continue
		}
		local := eye.Socket.Center.Add(d)
		got := eye.PupilCenter(Solve(local, eye).Offset)
		if !got.NearlyEqual(local, 1e-9) {
			t.Fatalf("pupil center %+v, want pointer %+v", got, local)
		}
	}
}

func TestMonotonicAlongRay(t *testing.T) {
	eye := DefaultLeft()
	for _, deg := range []float64{0, 30, 90, 135, 200, 290} {
		angle := deg * math.Pi / 180
		dir := vmath.FromPolar(angle, 1)
		prev := -1.0
		for r := 0.0; r < 200; r += 0.5 {
			sol := Solve(eye.Socket.Center.Add(dir.Scale(r)), eye)
			got := eye.PupilCenter(sol.Offset).Sub(eye.Socket.Center).Len()
			if got+tol < prev {
				t.Fatalf("%v°: displacement decreased at r=%v (%v < %v)", deg, r, got, prev)
			}
			if got > sol.MaxDistance+tol {
				t.Fatalf("%v°: displacement %v exceeds max %v", deg, got, sol.MaxDistance)
			}
			prev = got
		}
	}
}

func TestSaturatedOffsetFixedAlongRay(t *testing.T) {
	for _, eye := range []Eye{DefaultLeft(), DefaultRight()} {
		c := eye.Socket.Center
		for i := 0; i < 52; i++ {
			dir := vmath.FromPolar(2*math.Pi*float64(i)/52, 1)
			start := Solve(c.Add(dir.Scale(100)), eye)
			if !start.Saturated {
				t.Fatalf("%d: r=100 not saturated", i)
			}
			for r := 100.0; r <= 1e7; r *= 1.7 {
				got := Solve(c.Add(dir.Scale(r)), eye).Offset
				if !got.NearlyEqual(start.Offset, tol) {
					t.Fatalf("%d: offset at r=%g is %+v, want %+v", i, r, got, start.Offset)
				}
			}
		}
	}
}

func TestHorizontalMirrorSymmetry(t *testing.T) {
	eye := DefaultLeft()
	c := eye.Socket.Center
	for _, d := range []vmath.Vec2{{X: 5, Y: 3}, {X: -20, Y: 40}, {X: 300, Y: 900}, {X: 0, Y: 12}} {
		a := Solve(c.Add(d), eye).Offset
		b := Solve(c.Add(vmath.V(d.X, -d.Y)), eye).Offset
		if !vmath.NearlyEqual(a.X, b.X, tol) || !vmath.NearlyEqual(a.Y, -b.Y, tol) {
			t.Errorf("d=%+v: %+v vs mirrored %+v", d, a, b)
		}
	}
}

func TestVerticalMirrorSymmetry(t *testing.T) {
	// Synthetic face symmetric about x=0
	left := Eye{
		Socket: Socket{Center: vmath.V(-100, 0), RadiusX: 50, RadiusY: 60},
		Pupil:  Pupil{InitialCenter: vmath.V(-95, 0), RadiusX: 30, RadiusY: 40},
	}
	right := Eye{
		Socket: Socket{Center: vmath.V(100, 0), RadiusX: 50, RadiusY: 60},
		Pupil:  Pupil{InitialCenter: vmath.V(95, 0), RadiusX: 30, RadiusY: 40},
	}
	for _, p := range []vmath.Vec2{{X: 0, Y: 0}, {X: 37, Y: -12}, {X: -500, Y: 220}, {X: 90, Y: 5}} {
		l := Solve(p, left).Offset
		r := Solve(vmath.V(-p.X, p.Y), right).Offset
		if !vmath.NearlyEqual(l.X, -r.X, tol) || !vmath.NearlyEqual(l.Y, r.Y, tol) {
			t.Errorf("p=%+v: left %+v, mirrored right %+v", p, l, r)
		}
	}
}

func TestDegenerateTravel(t *testing.T) {
	tests := []struct {
		name  string
		eye   Eye
		local vmath.Vec2
	}{
		{
			"pupil fills socket",
			Eye{Socket: Socket{RadiusX: 10, RadiusY: 10}, Pupil: Pupil{RadiusX: 10, RadiusY: 10}},
			vmath.V(50, 50),
		},
		{
			"pupil wider than socket",
			Eye{Socket: Socket{RadiusX: 10, RadiusY: 10}, Pupil: Pupil{RadiusX: 14, RadiusY: 12}},
			vmath.V(-30, 4),
		},
		{
			"only vertical room",
			Eye{Socket: Socket{RadiusX: 10, RadiusY: 20}, Pupil: Pupil{RadiusX: 10, RadiusY: 5}},
			vmath.V(30, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := Solve(tt.local, tt.eye)
			if !sol.Offset.IsFinite() {
				t.Fatalf("offset not finite: %+v", sol.Offset)
			}
			maxX, maxY := tt.eye.Travel()
			if maxX < 0 || maxY < 0 {
				t.Fatalf("negative travel (%v, %v)", maxX, maxY)
			}
			c := tt.eye.PupilCenter(sol.Offset).Sub(tt.eye.Socket.Center)
			if c.Len() > math.Max(maxX, maxY)+tol {
				t.Errorf("pupil displaced %v beyond travel (%v, %v)", c.Len(), maxX, maxY)
			}
		})
	}
}

func TestTrackerKeepsOffsetWhenSurfaceUnusable(t *testing.T) {
	tr := NewTracker(DefaultLeft())

	if off, ok := tr.Update(vmath.V(1, 1), nil); ok || off != (vmath.Vec2{}) {
		t.Fatalf("nil surface: got %+v, %v", off, ok)
	}

	identity := SurfaceFunc(func() (vmath.Affine, bool) { return vmath.Identity, true })
	want, ok := tr.Update(vmath.V(1000, mascotEyeY), identity)
	if !ok {
		t.Fatal("identity surface rejected")
	}

	tests := []struct {
		name    string
		surface Surface
	}{
		{"unmeasured", SurfaceFunc(func() (vmath.Affine, bool) { return vmath.Identity, false })},
		{"collapsed", SurfaceFunc(func() (vmath.Affine, bool) { return vmath.ScaleXY(0, 1), true })},
		{"nan", SurfaceFunc(func() (vmath.Affine, bool) { return vmath.Affine{A: math.NaN(), D: 1}, true })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.Update(vmath.V(-1000, 0), tt.surface)
			if ok {
				t.Error("update should be skipped")
			}
			if got != want {
				t.Errorf("offset changed to %+v, want %+v", got, want)
			}
		})
	}

	tr.Reset()
	if _, has := tr.Offset(); has {
		t.Error("Reset should clear offset")
	}
	if tr.PupilCenter() != tr.Eye().Pupil.InitialCenter {
		t.Error("reset pupil should sit at rest")
	}
}

func TestTrackerRecomputesFromScratch(t *testing.T) {
	identity := SurfaceFunc(func() (vmath.Affine, bool) { return vmath.Identity, true })
	a := NewTracker(DefaultLeft())
	b := NewTracker(DefaultLeft())

	a.Update(vmath.V(-300, 20), identity)
	a.Update(vmath.V(700, 600), identity)
	b.Update(vmath.V(700, 600), identity)

	oa, _ := a.Offset()
	ob, _ := b.Offset()
	if oa != ob {
		t.Errorf("history leaked: %+v vs %+v", oa, ob)
	}
}

func TestFaceBind(t *testing.T) {
	hub := pointer.NewHub()
	face := DefaultFace()
	surface := SurfaceFunc(func() (vmath.Affine, bool) { return vmath.Identity, true })

	var frames []FaceOffsets
	sub := face.Bind(hub, surface, func(o FaceOffsets) { frames = append(frames, o) })

	hub.Publish(pointer.Event{Pos: vmath.V(1000, mascotEyeY)})
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if !f.Valid || !f.LeftSaturated || !f.RightSaturated {
		t.Errorf("unexpected flags: %+v", f)
	}
	if !f.Left.NearlyEqual(vmath.V(10.43, 0), 1e-6) {
		t.Errorf("left = %+v", f.Left)
	}
	if !f.Right.NearlyEqual(vmath.V(16.59+6.17, 0), 1e-6) {
		t.Errorf("right = %+v", f.Right)
	}

	sub.Close()
	hub.Publish(pointer.Event{Pos: vmath.V(-1000, 0)})
	if len(frames) != 1 {
		t.Errorf("closed binding still delivered")
	}
	if hub.Len() != 0 {
		t.Errorf("hub still holds %d subscriptions", hub.Len())
	}

	// nil apply still tracks
	sub = face.Bind(hub, surface, nil)
	defer sub.Close()
	hub.Publish(pointer.Event{Pos: face.Left().Eye().Socket.Center})
	if got, _ := face.Left().Offset(); !got.NearlyEqual(vmath.V(-6.16, 0), 1e-6) {
		t.Errorf("left after nil-apply bind = %+v", got)
	}
}

func TestBindGuards(t *testing.T) {
	hub := pointer.NewHub()

	var nilFace *Face
	sub := nilFace.Bind(hub, SurfaceFunc(func() (vmath.Affine, bool) { return vmath.Identity, true }), nil)
	if sub.Active() || hub.Len() != 0 {
		t.Errorf("nil face bound: active=%v len=%d", sub.Active(), hub.Len())
	}

	face := DefaultFace()
	calls := 0
	sub = face.Bind(hub, nil, func(FaceOffsets) { calls++ })
	defer sub.Close()
	hub.Publish(pointer.Event{Pos: vmath.V(1000, mascotEyeY)})
	if calls != 0 {
		t.Errorf("nil surface applied %d frames", calls)
	}
	if _, ok := face.Left().Offset(); ok {
		t.Error("nil surface produced an offset")
	}
}

func TestSmoother(t *testing.T) {
	target := vmath.V(10, -4)

	pass := NewSmoother(0)
	if got := pass.Step(target, 16*1e6); got != target {
		t.Errorf("pass-through = %+v", got)
	}

	s := NewSmoother(10)
	if got := s.Step(vmath.Vec2{}, 0); got != (vmath.Vec2{}) {
		t.Fatalf("first step should snap, got %+v", got)
	}
	prev := 0.0
	for i := 0; i < 100; i++ {
		got := s.Step(target, 16_000_000)
		dist := got.Sub(target).Len()
		if i > 0 && dist > prev+tol {
			t.Fatalf("step %d moved away: %v > %v", i, dist, prev)
		}
		prev = dist
	}
	if !s.Current().NearlyEqual(target, 1e-3) {
		t.Errorf("did not converge: %+v", s.Current())
	}

	if got := s.Step(vmath.V(0, 0), 0); got != s.Current() {
		t.Error("zero dt must hold position")
	}
}

func TestFaceSmootherStaysContained(t *testing.T) {
	face := DefaultFace()
	fs := NewFaceSmoother(8)
	rng := rand.New(rand.NewSource(11))
	eye := face.Left().Eye()
	maxX, maxY := eye.Travel()

	for i := 0; i < 500; i++ {
		target := face.TrackLocal(vmath.V(rng.Float64()*1200-300, rng.Float64()*900-200))
		out := fs.Step(target, 16_000_000)
		c := eye.PupilCenter(out.Left).Sub(eye.Socket.Center)
		if d := vmath.EllipseDistSq(c.X, c.Y, maxX, maxY); d > 1+1e-6 {
			t.Fatalf("smoothed pupil escaped: %v", d)
		}
	}
}
