package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/pkg/math"
)

func TestPositionDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 10, Y: 5, Z: -3}
	c.RotationY = 1.1

	d := c.Position().Sub(c.Center).Length()
	if gomath.Abs(float64(d-c.Distance)) > 1e-2 {
		t.Errorf("distance from center = %v, want %v", d, c.Distance)
	}
	if c.Position().Y <= c.Center.Y {
		t.Error("camera should look down on the center")
	}
}

func TestViewMatrixCentersTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 4, Y: 2, Z: 1}

	p := c.ViewMatrix().TransformPoint(c.Center)
	if gomath.Abs(float64(p.X)) > 1e-3 || gomath.Abs(float64(p.Y)) > 1e-3 {
		t.Errorf("center in view space = %v, want on the -Z axis", p)
	}
	if p.Z >= 0 {
		t.Errorf("center in view space = %v, want in front of the camera", p)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -10000)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch = %v, want %v", c.RotationX, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want %v", c.Distance, c.MinDistance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-5)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("distance = %v, want %v", c.Distance, c.MaxDistance)
	}
}

func TestPublish(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(512, 0)
	set := uniform.NewSet("water")
	c.Publish(set, 16.0/9.0)

	if p, ok := set.Vec3(uniform.CameraPosition); !ok || p != c.Position() {
		t.Errorf("cameraPosition = %v", p)
	}
	if _, ok := set.Mat4(uniform.View); !ok {
		t.Error("view not published")
	}
	if m, ok := set.Mat4(uniform.Projection); !ok || m != c.ProjectionMatrix(16.0/9.0) {
		t.Error("projection not published")
	}
}
