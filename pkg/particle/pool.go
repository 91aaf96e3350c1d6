// Package particle manages short-lived visual effects from a fixed,
// pre-allocated pool.
package particle

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"

	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// DefaultCapacity is the pool size used when none is configured
const DefaultCapacity = 50

// Particle is one pooled effect element. It is either free (detached from
// the scene) or active (attached and decaying), never both.
type Particle struct {
	Node        *scene.Node
	Velocity    physics.Vector2D
	CreatedAt   float64 // simulation seconds
	Lifetime    float64 // seconds
	InitialSize float64

	start  colorful.Color
	end    colorful.Color
	easing ease.TweenFunc
	pooled bool
}

// Pool owns every particle. Only the pool mutates its free and active lists.
type Pool struct {
	ctx      *entity.Context
	rng      *rand.Rand
	capacity int
	free     []*Particle
	active   []*Particle
	now      float64
	enabled  bool
	overflow int
	scope    *entity.Scope
}

// NewPool pre-allocates capacity particles and subscribes to the effect and
// game state topics. The pool starts enabled.
func NewPool(ctx *entity.Context, capacity int, rng *rand.Rand) *Pool {
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}

	p := &Pool{
		ctx:      ctx,
		rng:      rng,
		capacity: capacity,
		free:     make([]*Particle, 0, capacity),
		active:   make([]*Particle, 0, capacity),
		enabled:  true,
		scope:    entity.NewScope(),
	}
	for i := 0; i < capacity; i++ {
		p.free = append(p.free, newParticle(true))
	}

	entity.Listen(p.scope, ctx.Bus, event.ParticlesExplosion, func(e event.ParticlesEvent) {
		p.SpawnEffect(e.Position, Explosion)
	})
	entity.Listen(p.scope, ctx.Bus, event.ParticlesHit, func(e event.ParticlesEvent) {
		p.SpawnEffect(e.Position, Hit)
	})
	entity.Listen(p.scope, ctx.Bus, event.GameStateChanged, func(e event.GameStateEvent) {
		p.SetActive(e.State == event.StateRunning)
	})

	return p
}

func newParticle(pooled bool) *Particle {
	node := scene.NewNode(scene.KindParticle, "", 0)
	node.Visible = false
	return &Particle{Node: node, pooled: pooled}
}

// SetActive enables or disables the pool. A disabled pool neither spawns
// nor advances particles.
func (p *Pool) SetActive(active bool) {
	p.enabled = active
}

// Active reports whether the pool is enabled
func (p *Pool) Active() bool {
	return p.enabled
}

// SpawnEffect starts cfg.Count particles at position and returns how many
// were started.
func (p *Pool) SpawnEffect(position physics.Vector2D, cfg EffectConfig) int {
	if !p.enabled {
		return 0
	}

	for i := 0; i < cfg.Count; i++ {
		part := p.acquire(cfg.Name)
		p.reset(part, position, cfg)
		p.active = append(p.active, part)
		event.Publish(p.ctx.Bus, event.SceneAddObject, event.SceneObjectEvent{Object: part.Node})
	}
	return cfg.Count
}

// acquire takes a free particle, or allocates one outside the pool when
// none is left.
func (p *Pool) acquire(effect string) *Particle {
	if n := len(p.free); n > 0 {
		part := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return part
	}

	p.overflow++
	p.ctx.Logger.Warn(p.ctx.Ctx, "particle pool exhausted, allocating",
		"effect", effect,
		"capacity", p.capacity,
		"active", len(p.active),
	)
	return newParticle(false)
}

// reset randomizes a particle from the effect's ranges
func (p *Pool) reset(part *Particle, position physics.Vector2D, cfg EffectConfig) {
	angle := p.rng.Float64() * 2 * math.Pi
	speed := between(p.rng, cfg.SpeedMin, cfg.SpeedMax)
	size := between(p.rng, cfg.SizeMin, cfg.SizeMax)

	part.Velocity = physics.FromAngle(angle, speed)
	part.CreatedAt = p.now
	part.Lifetime = cfg.Lifetime.Seconds()
	part.InitialSize = size
	part.start = cfg.StartColor
	part.end = cfg.EndColor
	part.easing = cfg.Easing
	if part.easing == nil {
		part.easing = ease.Linear
	}

	node := part.Node
	node.Variant = cfg.Name
	node.Position = position
	node.Radius = size
	node.Scale = 1
	node.Opacity = 1
	node.Color = cfg.StartColor
	node.Visible = true
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// Update advances every active particle and returns expired ones to the
// pool.
func (p *Pool) Update(deltaTime float64) {
	if !p.enabled {
		return
	}
	p.now += deltaTime

	kept := p.active[:0]
	var expired []*Particle
	for _, part := range p.active {
		age := p.now - part.CreatedAt
		if age > part.Lifetime {
			expired = append(expired, part)
			continue
		}
		p.advance(part, age, deltaTime)
		kept = append(kept, part)
	}
	// Clear the tail so released particles are not referenced twice.
	for i := len(kept); i < len(p.active); i++ {
		p.active[i] = nil
	}
	p.active = kept

	for _, part := range expired {
		p.release(part)
	}
}

// advance moves a particle and decays its scale, opacity and color by
// normalized age.
func (p *Pool) advance(part *Particle, age, deltaTime float64) {
	node := part.Node
	node.Position = node.Position.Add(part.Velocity.Scale(deltaTime))

	t, d := float32(age), float32(part.Lifetime)
	if d <= 0 {
		node.Scale, node.Opacity = 0, 0
	} else {
		node.Scale = float64(part.easing(t, 1, -1, d))
		node.Opacity = float64(part.easing(t, 1, -1, d))
	}

	progress := 1.0
	if part.Lifetime > 0 {
		progress = math.Min(age/part.Lifetime, 1)
	}
	node.Color = part.start.BlendRgb(part.end, progress)
}

// release detaches a particle and puts it back on the free list. Overflow
// particles are dropped instead.
func (p *Pool) release(part *Particle) {
	node := part.Node
	node.Visible = false
	event.Publish(p.ctx.Bus, event.SceneRemoveObject, event.SceneObjectEvent{Object: node})

	part.Velocity = physics.Vector2D{}
	part.CreatedAt = 0
	part.Lifetime = 0
	part.InitialSize = 0
	node.Scale = 1
	node.Opacity = 1

	if part.pooled {
		p.free = append(p.free, part)
	}
}

// Clear returns every active particle to the pool, whether or not the pool
// is enabled.
func (p *Pool) Clear() {
	active := p.active
	p.active = make([]*Particle, 0, p.capacity)
	for _, part := range active {
		p.release(part)
	}
}

// Close clears the pool and drops its subscriptions
func (p *Pool) Close() {
	p.Clear()
	p.scope.Close()
}

// ActiveCount returns the number of live particles
func (p *Pool) ActiveCount() int {
	return len(p.active)
}

// FreeCount returns the number of particles waiting in the pool
func (p *Pool) FreeCount() int {
	return len(p.free)
}

// Capacity returns the number of pre-allocated particles
func (p *Pool) Capacity() int {
	return p.capacity
}

// Overflow returns how many particles were allocated outside the pool
func (p *Pool) Overflow() int {
	return p.overflow
}
