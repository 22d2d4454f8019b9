package coupling

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/wavepool/internal/engine/agent"
	"github.com/Faultbox/wavepool/internal/engine/transform"
	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
	"github.com/Faultbox/wavepool/pkg/math"
)

func init() {
	logger.InitNop()
}

func newCoupler(level float32) *Coupler {
	return New(water.DefaultParams(), transform.WaterPlacement(level))
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func TestPerturbationSourceMapping(t *testing.T) {
	c := newCoupler(3)

	tests := []struct {
		name   string
		pos    math.Vec3
		gx, gy float32
	}{
		{"world origin is grid center", math.Vec3{Y: 3}, 64, 64},
		{"height above water is ignored", math.Vec3{Y: 40}, 64, 64},
		{"world x is grid x", math.Vec3{X: 8, Y: 3}, 66, 64},
		{"world -z is grid +y", math.Vec3{Y: 3, Z: -4}, 64, 65},
		{"grid origin corner", math.Vec3{X: -256, Z: 256}, 0, 0},
		{"inside the first cell", math.Vec3{X: -257.2, Z: 256}, -0.3, 0},
		{"inside the last cell", math.Vec3{X: 253.2, Z: -253.2}, 127.3, 127.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := c.PerturbationSource(agent.NewState(tt.pos, 16))
			if !near(in.Source.X, tt.gx) || !near(in.Source.Y, tt.gy) {
				t.Errorf("source = %v, want (%v, %v)", in.Source, tt.gx, tt.gy)
			}
		})
	}
}

func TestPerturbationSourceSentinel(t *testing.T) {
	nan := float32(gomath.NaN())

	tests := []struct {
		name    string
		coupler *Coupler
		state   agent.State
	}{
		{"outside bounds", newCoupler(0), agent.NewState(math.Vec3{X: 300}, 16)},
		{"on the far edge", newCoupler(0), agent.NewState(math.Vec3{X: 256}, 16)},
		{"past the last cell centre", newCoupler(0), agent.NewState(math.Vec3{X: 254.8}, 16)},
		{"past the first cell", newCoupler(0), agent.NewState(math.Vec3{X: -258.4}, 16)},
		{"non-finite position", newCoupler(0), agent.NewState(math.Vec3{X: nan}, 16)},
		{
			"singular water placement",
			New(water.DefaultParams(), transform.New(transform.Water, transform.World, math.Scale(1, 0, 1))),
			agent.NewState(math.Vec3{}, 16),
		},
		{
			"degenerate agent orientation",
			newCoupler(0),
			agent.State{Radius: 16, Orientation: math.Quat{X: nan, W: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.coupler.PerturbationSource(tt.state)
			if in.Source != water.Sentinel {
				t.Errorf("source = %v, want sentinel", in.Source)
			}
			got, _ := tt.coupler.Simulation().Vec2(uniform.MousePos)
			if got != water.Sentinel {
				t.Errorf("mousePos = %v, want sentinel", got)
			}
		})
	}
}

func TestSimulationUniforms(t *testing.T) {
	c := newCoupler(0)
	c.PerturbationSource(agent.NewState(math.Vec3{}, 16))

	p := water.DefaultParams()
	sim := c.Simulation()
	for name, want := range map[string]float32{
		uniform.MouseSize:          p.Radius,
		uniform.MouseStrength:      p.Strength,
		uniform.Viscosity:          p.Viscosity,
		uniform.HeightCompensation: p.Compensation,
	} {
		if got, ok := sim.Float(name); !ok || got != want {
			t.Errorf("%s = %v (set=%v), want %v", name, got, ok, want)
		}
	}
}

func TestPublish(t *testing.T) {
	c := newCoupler(0)
	host := water.NewHeightmap(128)
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			host.SetCell(x, y, float32(x)*0.5, 0)
		}
	}

	s := agent.NewState(math.Vec3{X: 10, Y: 2, Z: -6}, 16)
	c.Publish(host, host, s)

	for _, set := range []*uniform.Set{c.Water(), c.Agent()} {
		tex, ok := set.Texture(uniform.Heightmap)
		if !ok || tex != uniform.Texture(host) {
			t.Errorf("%s: heightmap not bound", set.Name())
		}
		if _, ok := set.Mat4(uniform.WorldToWater); !ok {
			t.Errorf("%s: %s missing", set.Name(), uniform.WorldToWater)
		}
		if b, _ := set.Float(uniform.Bounds); b != 512 {
			t.Errorf("%s: bounds = %v", set.Name(), b)
		}
	}

	if m, _ := c.Water().Mat4(uniform.WaterToWorld); m != transform.WaterPlacement(0).M {
		t.Error("water set has wrong tf_water_to_world")
	}
	if m, _ := c.Agent().Mat4(uniform.AgentToWorld); m != s.ToWorld().M {
		t.Error("agent set has wrong tf_agent_to_world")
	}
	if p, _ := c.Agent().Vec3(uniform.AgentPosition); p != s.Position {
		t.Errorf("agentPosition = %v", p)
	}

	// World x=10 is grid x=66.5, height 0.5 * 66.5.
	h, ok := c.Agent().Float(uniform.AgentWaterHeight)
	if !ok || !near(h, 33.25) {
		t.Errorf("agentWaterHeight = %v (set=%v), want 33.25", h, ok)
	}
}

func TestPublishWithoutHostHeightmap(t *testing.T) {
	c := newCoupler(0)
	tex := water.NewHeightmap(128)
	c.Publish(tex, nil, agent.NewState(math.Vec3{}, 16))

	if _, ok := c.Agent().Float(uniform.AgentWaterHeight); ok {
		t.Error("agentWaterHeight written without a host heightmap")
	}
	if _, ok := c.Agent().Texture(uniform.Heightmap); !ok {
		t.Error("heightmap texture not bound")
	}
}

func TestSurfaceHeight(t *testing.T) {
	c := newCoupler(5)
	if _, ok := c.SurfaceHeight(0, 0); ok {
		t.Error("surface reported before any heightmap was published")
	}

	host := water.NewHeightmap(128)
	for i := 0; i < len(host.Pix); i += water.Channels {
		host.Pix[i] = 2
	}
	c.Publish(host, host, agent.NewState(math.Vec3{}, 16))

	h, ok := c.SurfaceHeight(20, 20)
	if !ok || !near(h, 7) {
		t.Errorf("SurfaceHeight = %v (ok=%v), want level + height = 7", h, ok)
	}
	if _, ok := c.SurfaceHeight(1000, 0); ok {
		t.Error("surface reported outside the grid")
	}
}

func TestAgentRidesCoupledSurface(t *testing.T) {
	c := newCoupler(0)
	host := water.NewHeightmap(128)
	for i := 0; i < len(host.Pix); i += water.Channels {
		host.Pix[i] = 3
	}
	c.Publish(host, host, agent.NewState(math.Vec3{}, 16))

	var driver agent.Driver = &agent.Circular{OrbitRadius: 50, AngularSpeed: 1, Altitude: 1, Surface: c}
	s := agent.NewState(math.Vec3{}, 16)
	driver.Advance(&s, 0.5)

	if !near(s.Position.Y, 4) {
		t.Errorf("agent Y = %v, want 4", s.Position.Y)
	}
}
