package math

import (
	"math"
	"testing"
)

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestRotateXMapsNormalToUp(t *testing.T) {
	// -90 degrees about X takes local +Z to +Y and local +Y to -Z.
	m := RotateX(-float32(math.Pi / 2))

	z := m.TransformPoint(Vec3{0, 0, 1})
	if !near(z, Vec3{0, 1, 0}) {
		t.Errorf("RotateX(-pi/2) * +Z = %v, want (0, 1, 0)", z)
	}
	y := m.TransformPoint(Vec3{0, 1, 0})
	if !near(y, Vec3{0, 0, -1}) {
		t.Errorf("RotateX(-pi/2) * +Y = %v, want (0, 0, -1)", y)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(5, -3, 2).Mul(RotateX(0.7)).Mul(Scale(2, 4, 0.5))

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}

	id := m.Mul(inv)
	want := Identity()
	for i := range id {
		if abs(id[i]-want[i]) > 1e-4 {
			t.Fatalf("M * M^-1 element %d = %f, want %f", i, id[i], want[i])
		}
	}

	p := Vec3{7, 8, 9}
	back := inv.TransformPoint(m.TransformPoint(p))
	if !near(back, p) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestInverseSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"zero scale", Scale(1, 0, 1)},
		{"zero matrix", Mat4{}},
		{"nan", Mat4{float32(math.NaN()), 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Inverse()
			if ok {
				t.Fatal("expected singular matrix to be rejected")
			}
			if inv != Identity() {
				t.Errorf("singular inverse should fall back to identity, got %v", inv)
			}
		})
	}
}

func TestDeterminant(t *testing.T) {
	if d := Scale(2, 3, 4).Determinant(); d != 24 {
		t.Errorf("det(Scale(2,3,4)) = %f, want 24", d)
	}
	if d := Translate(9, 9, 9).Determinant(); d != 1 {
		t.Errorf("det(Translate) = %f, want 1", d)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if got := m.TransformPoint(eye); !near(got, Vec3{}) {
		t.Errorf("view * eye = %v, want origin", got)
	}
}

func near(a, b Vec3) bool {
	return abs(a.X-b.X) < 1e-4 && abs(a.Y-b.Y) < 1e-4 && abs(a.Z-b.Z) < 1e-4
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
