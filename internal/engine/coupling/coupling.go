// Package coupling moves data between the agent and the water simulation
// each frame: the agent's position becomes the perturbation source before
// the step, and the step's result is published to the water and agent
// materials after it.
package coupling

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/engine/agent"
	"github.com/Faultbox/wavepool/internal/engine/transform"
	"github.com/Faultbox/wavepool/internal/engine/uniform"
	"github.com/Faultbox/wavepool/internal/engine/water"
	"github.com/Faultbox/wavepool/internal/logger"
	"github.com/Faultbox/wavepool/pkg/math"
)

// Uniform set names.
const (
	SimulationSet = "simulation"
	WaterSet      = "water"
	AgentSet      = "agent"
)

// Coupler owns the named transforms between agent, world, water and grid
// space and the three uniform sets the coupling writes.
type Coupler struct {
	params       water.Params
	waterToWorld transform.Transform
	worldToWater transform.Transform
	waterToGrid  transform.Transform
	invertible   bool // worldToWater is valid

	sim   *uniform.Set
	water *uniform.Set
	agent *uniform.Set

	host      *water.Heightmap // Last published host heightmap, may be nil
	perturbed bool
	log       *zap.Logger
}

// New creates a coupler for a grid described by params, placed in the world
// by waterToWorld. A singular placement is not an error: the coupler then
// never perturbs the water.
func New(params water.Params, waterToWorld transform.Transform) *Coupler {
	c := &Coupler{
		params:       params,
		waterToWorld: waterToWorld,
		waterToGrid:  transform.WaterToGrid(params.Width, params.Bounds),
		sim:          uniform.NewSet(SimulationSet),
		water:        uniform.NewSet(WaterSet),
		agent:        uniform.NewSet(AgentSet),
		log:          logger.Named("coupling"),
	}

	inv, err := waterToWorld.Inverse()
	if err != nil {
		c.log.Warn("water placement cannot be inverted, agent will not disturb the water", zap.Error(err))
	} else {
		c.worldToWater = inv
		c.invertible = true
	}
	return c
}

// PerturbationSource maps the agent's world position into grid space and
// writes the simulation uniforms for the coming step. Any failure along the
// agent -> world -> water -> grid chain, or a position outside the grid,
// yields the sentinel.
func (c *Coupler) PerturbationSource(s agent.State) water.Inputs {
	in := water.Inputs{Source: c.gridPosition(s)}

	if perturbed := in.Perturbed(); perturbed != c.perturbed {
		c.perturbed = perturbed
		c.log.Debug("agent influence changed",
			zap.Bool("perturbing", perturbed),
			zap.Float32("grid_x", in.Source.X),
			zap.Float32("grid_y", in.Source.Y),
		)
	}

	c.sim.SetVec2(uniform.MousePos, in.Source)
	c.sim.SetFloat(uniform.MouseSize, c.params.Radius)
	c.sim.SetFloat(uniform.MouseStrength, c.params.Strength)
	c.sim.SetFloat(uniform.Viscosity, c.params.Viscosity)
	c.sim.SetFloat(uniform.HeightCompensation, c.params.Compensation)
	return in
}

func (c *Coupler) gridPosition(s agent.State) math.Vec2 {
	if !c.invertible {
		return water.Sentinel
	}
	toWorld := s.ToWorld()
	if _, err := toWorld.Inverse(); err != nil {
		return water.Sentinel
	}

	world := toWorld.Apply(math.Vec3{})
	g, ok := c.worldToGrid(world)
	if !ok {
		return water.Sentinel
	}
	return g
}

// worldToGrid maps a world point onto the grid. Cell centres sit at integer
// coordinates, so cell i covers [i-0.5, i+0.5). ok is false when the result
// is non-finite or outside [-0.5, width-0.5) on either axis.
func (c *Coupler) worldToGrid(world math.Vec3) (math.Vec2, bool) {
	local := c.worldToWater.Apply(world)
	g := c.waterToGrid.Apply(local).XY()
	if !g.IsFinite() {
		return water.Sentinel, false
	}
	lo, hi := float32(-0.5), float32(c.params.Width)-0.5
	if g.X < lo || g.Y < lo || g.X >= hi || g.Y >= hi {
		return water.Sentinel, false
	}
	return g, true
}

// Publish writes the step result into the water and agent uniform sets. host
// is the host-side copy of tex when one exists; it supplies the water height
// under the agent.
func (c *Coupler) Publish(tex uniform.Texture, host *water.Heightmap, s agent.State) {
	c.host = host
	toWorld := s.ToWorld()

	c.water.SetTexture(uniform.Heightmap, tex)
	c.water.SetMat4(uniform.WaterToWorld, c.waterToWorld.M)
	c.water.SetFloat(uniform.Bounds, c.params.Bounds)

	c.agent.SetTexture(uniform.Heightmap, tex)
	c.agent.SetVec3(uniform.AgentPosition, s.Position)
	c.agent.SetMat4(uniform.AgentToWorld, toWorld.M)
	c.agent.SetFloat(uniform.Bounds, c.params.Bounds)

	if c.invertible {
		c.water.SetMat4(uniform.WorldToWater, c.worldToWater.M)
		c.agent.SetMat4(uniform.WorldToWater, c.worldToWater.M)
	}

	if h, ok := c.waterHeight(s.Position); ok {
		c.agent.SetFloat(uniform.AgentWaterHeight, h)
	}
}

// waterHeight samples the last published host heightmap under a world point
// and returns the height in water-local units.
func (c *Coupler) waterHeight(world math.Vec3) (float32, bool) {
	if c.host == nil || !c.invertible {
		return 0, false
	}
	g, ok := c.worldToGrid(world)
	if !ok {
		return 0, false
	}
	return c.host.Sample(g.X, g.Y), true
}

// SurfaceHeight implements agent.Surface: the world height of the water
// surface under (worldX, worldZ), as of the last Publish.
func (c *Coupler) SurfaceHeight(worldX, worldZ float32) (float32, bool) {
	world := math.Vec3{X: worldX, Z: worldZ}
	h, ok := c.waterHeight(world)
	if !ok {
		return 0, false
	}
	local := c.worldToWater.Apply(world)
	local.Z = h
	return c.waterToWorld.Apply(local).Y, true
}

// Simulation returns the uniforms consumed by the simulation stage.
func (c *Coupler) Simulation() *uniform.Set { return c.sim }

// Water returns the uniforms of the water surface material.
func (c *Coupler) Water() *uniform.Set { return c.water }

// Agent returns the uniforms of the agent material.
func (c *Coupler) Agent() *uniform.Set { return c.agent }

// WaterToGrid returns the water -> grid transform.
func (c *Coupler) WaterToGrid() transform.Transform { return c.waterToGrid }

// WaterToWorld returns the water placement.
func (c *Coupler) WaterToWorld() transform.Transform { return c.waterToWorld }
