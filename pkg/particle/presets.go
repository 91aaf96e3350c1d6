package particle

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
)

// EffectConfig describes one burst of particles. Ranges are inclusive of
// Min and exclusive of Max.
type EffectConfig struct {
	Name       string
	Count      int
	Lifetime   time.Duration
	SpeedMin   float64
	SpeedMax   float64
	SizeMin    float64
	SizeMax    float64
	StartColor colorful.Color
	EndColor   colorful.Color
	// Easing drives scale and opacity decay; nil means linear.
	Easing ease.TweenFunc
}

// Explosion is played when an enemy is destroyed.
var Explosion = EffectConfig{
	Name:       "explosion",
	Count:      15,
	Lifetime:   1000 * time.Millisecond,
	SpeedMin:   2,
	SpeedMax:   6,
	SizeMin:    0.05,
	SizeMax:    0.15,
	StartColor: mustHex("#ff8800"),
	EndColor:   mustHex("#8b0000"),
	Easing:     ease.Linear,
}

// Hit is played when a projectile damages an enemy without killing it.
var Hit = EffectConfig{
	Name:       "hit",
	Count:      8,
	Lifetime:   500 * time.Millisecond,
	SpeedMin:   1,
	SpeedMax:   3,
	SizeMin:    0.03,
	SizeMax:    0.08,
	StartColor: mustHex("#ffff00"),
	EndColor:   mustHex("#ff8800"),
	Easing:     ease.Linear,
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
