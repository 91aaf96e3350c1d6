package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	out       io.Writer
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions. scale is world units per character cell.
func NewTerminalRenderer(width, height int, scale float64, out io.Writer) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    out,
	}
	r.Clear()
	return r
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates. World +Y
// is up, screen rows grow downward.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	screenY := int(float64(r.height)/2 - (pos.Y-r.centerPos.Y)/r.scale)
	return screenX, screenY
}

// Clear blanks the buffer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Draw plots every visible node, in order, so later nodes win a cell.
func (r *TerminalRenderer) Draw(nodes []*scene.Node) {
	for _, node := range nodes {
		if node == nil || !node.Visible {
			continue
		}
		x, y := r.worldToScreen(node.Position)
		if x >= 0 && x < r.width && y >= 0 && y < r.height {
			r.buffer[y][x] = Symbol(node)
		}
	}
}

// Symbol returns the character used for a node
func Symbol(node *scene.Node) rune {
	switch node.Kind {
	case scene.KindPlayer:
		return 'A'
	case scene.KindEnemy:
		switch node.Variant {
		case "fast":
			return 'w'
		case "heavy":
			return 'W'
		default:
			return 'v'
		}
	case scene.KindPowerUp:
		switch node.Variant {
		case "health":
			return '+'
		case "shield":
			return 's'
		default:
			return 'a'
		}
	case scene.KindProjectile:
		return '|'
	case scene.KindParticle:
		return '*'
	case scene.KindCollider:
		return 'o'
	default:
		return '?'
	}
}

// String returns the buffer, one line per row, without borders
func (r *TerminalRenderer) String() string {
	var b strings.Builder
	for y := range r.buffer {
		b.WriteString(string(r.buffer[y]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Present writes the framed buffer and a status line.
func (r *TerminalRenderer) Present(status string) error {
	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	b.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	for y := range r.buffer {
		b.WriteString("|")
		b.WriteString(string(r.buffer[y]))
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	b.WriteString(status)
	b.WriteByte('\n')

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Frame clears, draws the registry's nodes and presents them.
func (r *TerminalRenderer) Frame(reg *Registry, stats event.PlayerStats) error {
	r.Clear()
	r.Draw(reg.Nodes())
	return r.Present(StatusLine(stats))
}

// StatusLine formats the player's gauges and score
func StatusLine(stats event.PlayerStats) string {
	return fmt.Sprintf("HP %3d/%d  AMMO %3d/%d  SCORE %d  ACC %.0f%%",
		stats.Health, stats.MaxHealth,
		stats.Ammo, stats.MaxAmmo,
		stats.Score, stats.Accuracy,
	)
}
