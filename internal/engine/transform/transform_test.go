package transform

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/wavepool/pkg/math"
)

func approx(a, b math.Vec3) bool {
	const eps = 1e-4
	return gomath.Abs(float64(a.X-b.X)) < eps &&
		gomath.Abs(float64(a.Y-b.Y)) < eps &&
		gomath.Abs(float64(a.Z-b.Z)) < eps
}

func TestName(t *testing.T) {
	tests := []struct {
		tf   Transform
		want string
	}{
		{New(Water, World, math.Identity()), "tf_water_to_world"},
		{New(World, Water, math.Identity()), "tf_world_to_water"},
		{New(Agent, World, math.Identity()), "tf_agent_to_world"},
	}
	for _, tt := range tests {
		if got := tt.tf.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestWaterPlacement(t *testing.T) {
	tf := WaterPlacement(5)

	tests := []struct {
		local, world math.Vec3
	}{
		{math.Vec3{}, math.Vec3{Y: 5}},
		{math.Vec3{X: 3}, math.Vec3{X: 3, Y: 5}},
		{math.Vec3{Y: 2}, math.Vec3{Y: 5, Z: -2}}, // local Y -> world -Z
		{math.Vec3{Z: 1}, math.Vec3{Y: 6}},        // local Z -> world +Y
	}
	for _, tt := range tests {
		if got := tf.Apply(tt.local); !approx(got, tt.world) {
			t.Errorf("Apply(%v) = %v, want %v", tt.local, got, tt.world)
		}
	}
}

func TestWaterToGrid(t *testing.T) {
	tf := WaterToGrid(128, 512)

	tests := []struct {
		local math.Vec3
		gx    float32
		gy    float32
	}{
		{math.Vec3{}, 64, 64},
		{math.Vec3{X: -256, Y: -256}, 0, 0},
		{math.Vec3{X: 4, Y: 8}, 65, 66},
		{math.Vec3{X: 252, Y: 0}, 127, 64},
	}
	for _, tt := range tests {
		got := tf.Apply(tt.local)
		if !approx(got, math.Vec3{X: tt.gx, Y: tt.gy, Z: tt.local.Z}) {
			t.Errorf("Apply(%v) = %v, want (%v, %v)", tt.local, got, tt.gx, tt.gy)
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	tf := WaterPlacement(-3)
	inv, err := tf.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if inv.From != World || inv.To != Water {
		t.Errorf("inverse frames = %s -> %s", inv.From, inv.To)
	}

	p := math.Vec3{X: 12, Y: -7, Z: 40}
	if got := inv.Apply(tf.Apply(p)); !approx(got, p) {
		t.Errorf("round trip %v -> %v", p, got)
	}
}

func TestInverseSingular(t *testing.T) {
	tests := []struct {
		name string
		m    math.Mat4
	}{
		{"zero scale", math.Scale(1, 0, 1)},
		{"zero matrix", math.Mat4{}},
		{"nan", math.Translate(float32(gomath.NaN()), 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Water, World, tt.m).Inverse()
			if !errors.Is(err, ErrSingular) {
				t.Errorf("Inverse() error = %v, want ErrSingular", err)
			}
		})
	}
}

func TestThen(t *testing.T) {
	toWorld := WaterPlacement(0)
	toWater, err := toWorld.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	worldToGrid, err := toWater.Then(WaterToGrid(128, 512))
	if err != nil {
		t.Fatalf("Then: %v", err)
	}
	if worldToGrid.Name() != "tf_world_to_grid" {
		t.Errorf("Name() = %q", worldToGrid.Name())
	}

	// World origin is the grid center; world -Z is water +Y.
	if got := worldToGrid.Apply(math.Vec3{}); !approx(got, math.Vec3{X: 64, Y: 64}) {
		t.Errorf("origin -> %v", got)
	}
	if got := worldToGrid.Apply(math.Vec3{X: 8, Z: -4}); !approx(got, math.Vec3{X: 66, Y: 65}) {
		t.Errorf("(8,0,-4) -> %v", got)
	}

	if _, err := toWorld.Then(WaterToGrid(128, 512)); err == nil {
		t.Error("expected frame mismatch error")
	}
}
