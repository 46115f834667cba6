// Package scene owns the dynamic-object world: the controlled actor,
// wandering creatures, and static scenery, stored in an ECS world. It
// is the geometry source for the deformation pipeline's presence
// capture, handing over only dynamic-category footprints.
package scene

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/lihogloglo/trample/components"
	"github.com/lihogloglo/trample/config"
	"github.com/lihogloglo/trample/deform"
)

// Scene holds all actors and scenery.
type Scene struct {
	world *ecs.World
	rng   *rand.Rand

	walkerMapper  *ecs.Map4[components.Position, components.Velocity, components.Body, components.Walker]
	playerMapper  *ecs.Map4[components.Position, components.Velocity, components.Body, components.Controlled]
	boulderMapper *ecs.Map2[components.Position, components.Body]

	walkerFilter *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Walker]
	bodyFilter   *ecs.Filter2[components.Position, components.Body]

	posMap *ecs.Map[components.Position]
	velMap *ecs.Map[components.Velocity]

	player ecs.Entity

	playerSpeed float32
	actorSpeed  float32
	leashRadius float32
	retargetMin float32
	retargetMax float32

	// Player input intents in [-1, 1], set each frame before Step.
	inputX, inputY float32
}

// New creates a scene with the configured population: one controlled
// actor at the origin, wanderers scattered around it, and static
// boulders that must never reach the presence capture.
func New(cfg *config.Config, rng *rand.Rand) *Scene {
	w := ecs.NewWorld()

	s := &Scene{
		world: &w,
		rng:   rng,

		playerSpeed: float32(cfg.Scene.PlayerSpeed),
		actorSpeed:  float32(cfg.Scene.ActorSpeed),
		leashRadius: float32(cfg.Scene.LeashRadius),
		retargetMin: float32(cfg.Scene.RetargetMin),
		retargetMax: float32(cfg.Scene.RetargetMax),
	}
	s.walkerMapper = ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Walker](&w)
	s.playerMapper = ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Controlled](&w)
	s.boulderMapper = ecs.NewMap2[components.Position, components.Body](&w)
	s.walkerFilter = ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Walker](&w)
	s.bodyFilter = ecs.NewFilter2[components.Position, components.Body](&w)
	s.posMap = ecs.NewMap[components.Position](&w)
	s.velMap = ecs.NewMap[components.Velocity](&w)

	radius := float32(cfg.Scene.ActorRadius)
	spawn := float32(cfg.Scene.SpawnRadius)

	// Player
	pos := components.Position{}
	vel := components.Velocity{}
	body := components.Body{Radius: radius, Category: components.CategoryDynamic}
	s.player = s.playerMapper.NewEntity(&pos, &vel, &body, &components.Controlled{})

	// Wanderers
	for i := 0; i < cfg.Scene.Wanderers; i++ {
		a := s.rng.Float32() * 2 * math.Pi
		d := s.rng.Float32() * spawn
		wpos := components.Position{X: d * cos32(a), Y: d * sin32(a)}
		wvel := components.Velocity{}
		wbody := components.Body{Radius: radius, Category: components.CategoryDynamic}
		walker := components.Walker{
			Heading:  s.rng.Float32() * 2 * math.Pi,
			Retarget: s.retargetDelay(),
		}
		s.walkerMapper.NewEntity(&wpos, &wvel, &wbody, &walker)
	}

	// Static boulders: present in the world, excluded from capture.
	for i := 0; i < cfg.Scene.Boulders; i++ {
		a := s.rng.Float32() * 2 * math.Pi
		d := spawn * (0.3 + 0.7*s.rng.Float32())
		bpos := components.Position{X: d * cos32(a), Y: d * sin32(a)}
		bbody := components.Body{
			Radius:   radius * (1.5 + 2*s.rng.Float32()),
			Category: components.CategoryStatic,
		}
		s.boulderMapper.NewEntity(&bpos, &bbody)
	}

	return s
}

// SetPlayerInput sets the controlled actor's movement intent for the
// next Step, as axis values in [-1, 1].
func (s *Scene) SetPlayerInput(x, y float32) {
	s.inputX = x
	s.inputY = y
}

// PlayerPosition returns the controlled actor's world position: the
// reference point the deformation window follows.
func (s *Scene) PlayerPosition() (float32, float32) {
	pos := s.posMap.Get(s.player)
	return pos.X, pos.Y
}

// Step advances all actors by dt seconds.
func (s *Scene) Step(dt float32) {
	if dt <= 0 {
		return
	}

	// Player: direct velocity control, normalized so diagonals aren't faster.
	pvel := s.velMap.Get(s.player)
	ix, iy := s.inputX, s.inputY
	mag := float32(math.Sqrt(float64(ix*ix + iy*iy)))
	if mag > 1 {
		ix /= mag
		iy /= mag
	}
	pvel.X = ix * s.playerSpeed
	pvel.Y = iy * s.playerSpeed
	ppos := s.posMap.Get(s.player)
	ppos.X += pvel.X * dt
	ppos.Y += pvel.Y * dt

	px, py := ppos.X, ppos.Y

	// Wanderers: stroll, occasionally retarget, and turn back toward
	// the player past the leash radius so the scene stays populated
	// around the window.
	query := s.walkerFilter.Query()
	for query.Next() {
		pos, vel, _, walker := query.Get()

		walker.Retarget -= dt
		if walker.Retarget <= 0 {
			walker.Heading = s.rng.Float32() * 2 * math.Pi
			walker.Retarget = s.retargetDelay()
		}

		dx := pos.X - px
		dy := pos.Y - py
		if dx*dx+dy*dy > s.leashRadius*s.leashRadius {
			walker.Heading = float32(math.Atan2(float64(py-pos.Y), float64(px-pos.X)))
		}

		vel.X = cos32(walker.Heading) * s.actorSpeed
		vel.Y = sin32(walker.Heading) * s.actorSpeed
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	}
}

// AppendGroundShapes implements deform.GeometrySource. Only
// dynamic-category bodies are handed to the capture; static scenery is
// filtered out here, and the capture independently validates the
// category of everything it receives.
func (s *Scene) AppendGroundShapes(dst []deform.GroundShape) []deform.GroundShape {
	query := s.bodyFilter.Query()
	for query.Next() {
		pos, body := query.Get()
		if body.Category != components.CategoryDynamic {
			continue
		}
		dst = append(dst, deform.GroundShape{
			X:        pos.X,
			Y:        pos.Y,
			Radius:   body.Radius,
			Category: body.Category,
		})
	}
	return dst
}

// Actor is a renderable view of one scene entity.
type Actor struct {
	X, Y     float32
	Radius   float32
	Category components.Category
	Player   bool
}

// ForEachActor calls fn for every body in the scene, for rendering.
func (s *Scene) ForEachActor(fn func(Actor)) {
	query := s.bodyFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, body := query.Get()
		fn(Actor{
			X:        pos.X,
			Y:        pos.Y,
			Radius:   body.Radius,
			Category: body.Category,
			Player:   entity == s.player,
		})
	}
}

// ActorCount returns the number of dynamic bodies in the scene.
func (s *Scene) ActorCount() int {
	count := 0
	query := s.bodyFilter.Query()
	for query.Next() {
		_, body := query.Get()
		if body.Category == components.CategoryDynamic {
			count++
		}
	}
	return count
}

func (s *Scene) retargetDelay() float32 {
	return s.retargetMin + s.rng.Float32()*(s.retargetMax-s.retargetMin)
}

func cos32(a float32) float32 { return float32(math.Cos(float64(a))) }
func sin32(a float32) float32 { return float32(math.Sin(float64(a))) }
