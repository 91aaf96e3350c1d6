// pkg/physics/collision.go
package physics

import "math"

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding
func (c Circle) Collides(other Circle) bool {
	return CircleHit(c.Center, c.Radius, other.Center, other.Radius)
}

// CircleHit reports whether two circles overlap. Touching circles
// (distance exactly rA+rB) do not count as a hit.
func CircleHit(posA Vector2D, rA float64, posB Vector2D, rB float64) bool {
	return posA.Distance(posB) < rA+rB
}

// ShapeCircle is one circle of a compound shape, expressed in the
// owner's local space.
type ShapeCircle struct {
	Name   string
	Offset Vector2D
	Radius float64
}

// CompoundShape approximates an irregular hit-box with a fixed set of circles.
type CompoundShape []ShapeCircle

// Scaled returns a copy of the shape with every offset and radius
// multiplied by factor.
func (s CompoundShape) Scaled(factor float64) CompoundShape {
	out := make(CompoundShape, len(s))
	for i, c := range s {
		out[i] = ShapeCircle{
			Name:   c.Name,
			Offset: c.Offset.Scale(factor),
			Radius: c.Radius * factor,
		}
	}
	return out
}

// At places the shape at origin and returns the world-space circles.
func (s CompoundShape) At(origin Vector2D) []Circle {
	out := make([]Circle, len(s))
	for i, c := range s {
		out[i] = Circle{Center: origin.Add(c.Offset), Radius: c.Radius}
	}
	return out
}

// BoundingRadius returns the radius of the smallest origin-centred circle
// containing the whole shape.
func (s CompoundShape) BoundingRadius() float64 {
	var r float64
	for _, c := range s {
		r = math.Max(r, c.Offset.Length()+c.Radius)
	}
	return r
}

// CompoundVsCircle reports whether any circle of the shape placed at
// origin hits the circle (pos, radius).
func CompoundVsCircle(origin Vector2D, shape CompoundShape, pos Vector2D, radius float64) bool {
	for _, c := range shape {
		if CircleHit(origin.Add(c.Offset), c.Radius, pos, radius) {
			return true
		}
	}
	return false
}

// CompoundVsCompound tests every pair of circles across both shapes and
// stops at the first hit.
func CompoundVsCompound(originA Vector2D, shapeA CompoundShape, originB Vector2D, shapeB CompoundShape) bool {
	for _, a := range shapeA {
		if CompoundVsCircle(originB, shapeB, originA.Add(a.Offset), a.Radius) {
			return true
		}
	}
	return false
}

// Positioned is anything NearestMatch can measure against.
type Positioned interface {
	GetPosition() Vector2D
}

// Match is the result of NearestMatch.
type Match[T Positioned] struct {
	Candidate T
	Distance  float64
}

// NearestMatch returns the closest candidate whose circle overlaps the
// source circle. Equal distances keep the earlier candidate, so callers
// that need deterministic results must pass candidates in a stable order.
func NearestMatch[T Positioned](source Vector2D, sourceRadius float64, candidates []T, radius func(T) float64) (Match[T], bool) {
	var best Match[T]
	found := false
	for _, c := range candidates {
		pos := c.GetPosition()
		r := radius(c)
		if !CircleHit(source, sourceRadius, pos, r) {
			continue
		}
		d := source.Distance(pos)
		if !found || d < best.Distance {
			best = Match[T]{Candidate: c, Distance: d}
			found = true
		}
	}
	return best, found
}
