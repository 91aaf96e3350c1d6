package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
)

type launch struct {
	owner    ID
	position physics.Vector2D
	velocity physics.Vector2D
	damage   int
}

type fakeLauncher struct {
	launches []launch
}

func (f *fakeLauncher) Create(ownerID ID, position, velocity physics.Vector2D, damage int) ID {
	f.launches = append(f.launches, launch{ownerID, position, velocity, damage})
	return ID(len(f.launches))
}

func newTestPlayer(t *testing.T) (*Player, *fakeLauncher, *Context) {
	t.Helper()
	ctx := newTestContext(config.DebugConfig{})
	launcher := &fakeLauncher{}
	return NewPlayer(ctx, config.DefaultConfig(), launcher), launcher, ctx
}

// fireTimes fires n shots, letting the fire limiter refill between them.
func fireTimes(p *Player, n int) {
	for i := 0; i < n; i++ {
		p.Fire()
		p.Update(0.2)
	}
}

func TestNewPlayer_InitialState(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	if p.Health != 100 || p.MaxHealth != 100 {
		t.Errorf("health = %d/%d", p.Health, p.MaxHealth)
	}
	if p.Ammo != 50 || p.MaxAmmo != 100 {
		t.Errorf("ammo = %d/%d", p.Ammo, p.MaxAmmo)
	}
	if p.Position != (physics.Vector2D{X: 0, Y: -4}) {
		t.Errorf("position = %v", p.Position)
	}
	if len(p.Shape) != 5 {
		t.Fatalf("shape has %d circles", len(p.Shape))
	}
	// nose (0, 0.6) r0.2 at size factor 0.5
	if p.Shape[0].Offset != (physics.Vector2D{Y: 0.3}) || p.Shape[0].Radius != 0.1 {
		t.Errorf("nose = %+v", p.Shape[0])
	}
	if p.Kind() != "player" {
		t.Errorf("Kind() = %s", p.Kind())
	}
}

func TestPlayer_AccuracyWithNoShotsIsZero(t *testing.T) {
	p, _, _ := newTestPlayer(t)
	p.RecordKill(10)

	if p.Accuracy != 0 || math.IsNaN(p.Accuracy) || math.IsInf(p.Accuracy, 0) {
		t.Errorf("accuracy with no shots = %f, want 0", p.Accuracy)
	}
}

func TestPlayer_AccuracyTenShotsFourKills(t *testing.T) {
	p, launcher, _ := newTestPlayer(t)

	fireTimes(p, 10)
	if p.ShotsFired != 10 || len(launcher.launches) != 10 {
		t.Fatalf("shots fired = %d, launches = %d", p.ShotsFired, len(launcher.launches))
	}
	for i := 0; i < 4; i++ {
		p.RecordKill(10)
	}

	if p.Accuracy != 40 {
		t.Errorf("accuracy = %f, want 40", p.Accuracy)
	}
	if p.Score != 40 || p.EnemiesDestroyed != 4 {
		t.Errorf("score = %d, destroyed = %d", p.Score, p.EnemiesDestroyed)
	}
	if p.Ammo != 40 {
		t.Errorf("ammo = %d, want 40", p.Ammo)
	}
}

func TestPlayer_FireLaunchesFromNose(t *testing.T) {
	p, launcher, ctx := newTestPlayer(t)
	ammo := collect(t, ctx.Bus, event.UIUpdateAmmo)
	audio := collect(t, ctx.Bus, event.AudioPlay)

	if !p.Fire() {
		t.Fatal("Fire() = false")
	}

	l := launcher.launches[0]
	if l.owner != p.ID || l.damage != 10 {
		t.Errorf("launch = %+v", l)
	}
	if math.Abs(l.position.Y-(-3.6)) > 1e-9 || l.position.X != 0 {
		t.Errorf("muzzle = %v, want {0 -3.6}", l.position)
	}
	if l.velocity != (physics.Vector2D{Y: 15}) {
		t.Errorf("velocity = %v", l.velocity)
	}
	if len(*ammo) != 1 || (*ammo)[0].Current != 49 {
		t.Errorf("ui:update-ammo = %v", *ammo)
	}
	if len(*audio) != 1 || (*audio)[0].SoundID != event.SoundLaser {
		t.Errorf("audio = %v", *audio)
	}
}

func TestPlayer_FireRateLimited(t *testing.T) {
	p, launcher, _ := newTestPlayer(t)

	p.Fire()
	if p.Fire() {
		t.Error("second shot in the same frame should be refused")
	}
	p.Update(0.05)
	if p.Fire() {
		t.Error("shot before 1/8 s should be refused")
	}
	p.Update(0.1)
	if !p.Fire() {
		t.Error("shot after 1/8 s should be allowed")
	}
	if len(launcher.launches) != 2 {
		t.Errorf("launches = %d, want 2", len(launcher.launches))
	}
}

func TestPlayer_FireWithoutAmmo(t *testing.T) {
	p, launcher, ctx := newTestPlayer(t)
	audio := collect(t, ctx.Bus, event.AudioPlay)
	p.Ammo = 0

	if p.Fire() {
		t.Error("Fire() with no ammo = true")
	}
	if len(launcher.launches) != 0 || p.ShotsFired != 0 {
		t.Error("empty gun launched a projectile")
	}
	if len(*audio) != 1 || (*audio)[0].SoundID != event.SoundEmpty {
		t.Errorf("audio = %v", *audio)
	}
}

func TestPlayer_HeldFireKeepsFiring(t *testing.T) {
	p, launcher, ctx := newTestPlayer(t)

	event.Publish(ctx.Bus, event.InputAction, event.InputActionEvent{Action: event.ActionFire, Pressed: true})
	for i := 0; i < 4; i++ {
		p.Update(0.2)
	}
	event.Publish(ctx.Bus, event.InputAction, event.InputActionEvent{Action: event.ActionFire, Pressed: false})
	p.Update(0.2)

	if len(launcher.launches) != 5 {
		t.Errorf("launches = %d, want 5", len(launcher.launches))
	}
}

func TestPlayer_MovementFromInput(t *testing.T) {
	p, _, ctx := newTestPlayer(t)

	event.Publish(ctx.Bus, event.InputAction, event.InputActionEvent{Action: event.ActionRight, Pressed: true})
	p.Update(0.1)
	if math.Abs(p.Position.X-0.5) > 1e-9 {
		t.Errorf("x after moving right = %f, want 0.5", p.Position.X)
	}

	// Holding right keeps the ship inside the field.
	p.Update(10)
	if p.Position.X != 5 {
		t.Errorf("x = %f, want clamp at 5", p.Position.X)
	}
	if p.Node.Position != p.Position {
		t.Error("node not synced after clamp")
	}

	event.Publish(ctx.Bus, event.InputAction, event.InputActionEvent{Action: event.ActionRight, Pressed: false})
	p.Update(1)
	if p.Position.X != 5 {
		t.Errorf("ship drifted after release: %v", p.Position)
	}
}

func TestPlayer_IgnoresUnknownInput(t *testing.T) {
	p, launcher, ctx := newTestPlayer(t)

	event.Publish(ctx.Bus, event.InputAction, event.InputActionEvent{Action: "warp", Pressed: true})
	p.Update(0.1)

	if p.Position != (physics.Vector2D{X: 0, Y: -4}) || len(launcher.launches) != 0 {
		t.Error("unknown action changed the player")
	}
}

func TestPlayer_TakeDamage(t *testing.T) {
	p, _, ctx := newTestPlayer(t)
	health := collect(t, ctx.Bus, event.UIUpdateHealth)

	if got := p.TakeDamage(30); got != 30 {
		t.Errorf("TakeDamage(30) = %d", got)
	}
	if got := p.TakeDamage(100); got != 70 {
		t.Errorf("TakeDamage past zero applied %d, want 70", got)
	}
	if p.Health != 0 || !p.IsDead() {
		t.Errorf("health = %d", p.Health)
	}
	if len(*health) != 2 || (*health)[1].Current != 0 || (*health)[1].Max != 100 {
		t.Errorf("ui:update-health = %v", *health)
	}
}

func TestPlayer_ShieldBlocksDamageUntilExpiry(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	p.ActivateShield(5000)
	if !p.ShieldActive() {
		t.Fatal("shield not active")
	}
	if got := p.TakeDamage(25); got != 0 || p.Health != 100 {
		t.Errorf("shielded player took %d damage", got)
	}

	p.Update(4.9)
	if !p.ShieldActive() {
		t.Error("shield expired early")
	}
	p.Update(0.2)
	if p.ShieldActive() {
		t.Error("shield still active after 5 s")
	}
	if got := p.TakeDamage(25); got != 25 {
		t.Errorf("unshielded damage = %d", got)
	}
}

func TestPlayer_HealAndAmmoClamp(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	p.TakeDamage(10)
	p.Heal(25)
	if p.Health != 100 {
		t.Errorf("health = %d, want clamp at 100", p.Health)
	}

	p.AddAmmo(15)
	if p.Ammo != 65 {
		t.Errorf("ammo = %d, want 65", p.Ammo)
	}
	p.AddAmmo(1000)
	if p.Ammo != 100 {
		t.Errorf("ammo = %d, want clamp at 100", p.Ammo)
	}
}

func TestPlayer_HitsCircle(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	tests := []struct {
		name   string
		pos    physics.Vector2D
		radius float64
		want   bool
	}{
		{"on nose", physics.Vector2D{X: 0, Y: -3.6}, 0.1, true},
		{"above nose", physics.Vector2D{X: 0, Y: -3.4}, 0.1, false},
		{"on left wing", physics.Vector2D{X: -0.35, Y: -4.05}, 0.1, true},
		{"between wing and nose", physics.Vector2D{X: -0.4, Y: -3.5}, 0.05, false},
		{"far away", physics.Vector2D{X: 3, Y: 3}, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.HitsCircle(tt.pos, tt.radius); got != tt.want {
				t.Errorf("HitsCircle(%v, %f) = %v, want %v", tt.pos, tt.radius, got, tt.want)
			}
		})
	}

	if len(p.Colliders()) != 5 {
		t.Errorf("Colliders() = %d circles", len(p.Colliders()))
	}
}

func TestPlayer_Reset(t *testing.T) {
	p, _, ctx := newTestPlayer(t)
	score := collect(t, ctx.Bus, event.UIUpdateScore)

	fireTimes(p, 3)
	p.RecordKill(50)
	p.RecordEscape()
	p.TakeDamage(40)
	p.ActivateShield(5000)
	p.Position = physics.Vector2D{X: 3, Y: -1}

	p.Reset()

	stats := p.Stats()
	if stats.Health != 100 || stats.Ammo != 50 || stats.Score != 0 {
		t.Errorf("stats after reset = %+v", stats)
	}
	if stats.ShotsFired != 0 || stats.EnemiesDestroyed != 0 || stats.EnemiesEscaped != 0 || stats.TimeAlive != 0 {
		t.Errorf("counters after reset = %+v", stats)
	}
	if p.ShieldActive() {
		t.Error("shield survived reset")
	}
	if p.Position != (physics.Vector2D{X: 0, Y: -4}) {
		t.Errorf("position after reset = %v", p.Position)
	}
	if last := (*score)[len(*score)-1]; last.Score != 0 {
		t.Errorf("last ui:update-score = %d", last.Score)
	}
}

func TestPlayer_TimeAlive(t *testing.T) {
	p, _, _ := newTestPlayer(t)
	p.Update(0.5)
	p.Update(0.25)
	if p.Stats().TimeAlive != 0.75 {
		t.Errorf("TimeAlive = %f", p.Stats().TimeAlive)
	}
}

func TestPlayer_DestroyUnsubscribesInput(t *testing.T) {
	p, _, ctx := newTestPlayer(t)

	if ctx.Bus.HandlerCount(event.InputAction.Name()) != 1 {
		t.Fatalf("expected player input subscription")
	}
	p.Destroy()
	if ctx.Bus.HandlerCount(event.InputAction.Name()) != 0 {
		t.Error("input subscription leaked after Destroy")
	}
	if p.Fire() {
		t.Error("destroyed player fired")
	}
}
