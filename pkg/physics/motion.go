// pkg/physics/motion.go
package physics

// MovementState is the kinematic state shared by every simulated object
type MovementState struct {
	Position Vector2D
	Velocity Vector2D
}

// Integrate advances the state by one explicit Euler step
func Integrate(state *MovementState, deltaTime float64) {
	state.Position = state.Position.Add(state.Velocity.Scale(deltaTime))
}

// SteerVelocity turns a pair of digital axes (-1, 0 or 1 each) into a
// velocity of the given speed. Diagonals are normalized so they are not
// faster than straight moves.
func SteerVelocity(axisX, axisY, speed float64) Vector2D {
	dir := Vector2D{X: axisX, Y: axisY}
	if dir.LengthSquared() == 0 {
		return Vector2D{}
	}
	return dir.Normalize().Scale(speed)
}

