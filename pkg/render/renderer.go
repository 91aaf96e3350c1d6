// pkg/render/renderer.go
package render

import (
	"sort"

	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// Registry is the headless scene. It tracks every node between its
// scene:add-object and scene:remove-object and is what renderers draw from.
type Registry struct {
	ctx   *entity.Context
	nodes map[uint64]*scene.Node
	scope *entity.Scope

	Added   int
	Removed int
}

// NewRegistry creates an empty registry subscribed to the scene topics.
func NewRegistry(ctx *entity.Context) *Registry {
	r := &Registry{
		ctx:   ctx,
		nodes: make(map[uint64]*scene.Node),
		scope: entity.NewScope(),
	}
	entity.Listen(r.scope, ctx.Bus, event.SceneAddObject, r.handleAdd)
	entity.Listen(r.scope, ctx.Bus, event.SceneRemoveObject, r.handleRemove)
	return r
}

func (r *Registry) handleAdd(e event.SceneObjectEvent) {
	if e.Object == nil {
		r.ctx.Logger.Debug(r.ctx.Ctx, "scene add called with nil node")
		return
	}
	id := e.Object.ID()
	if _, ok := r.nodes[id]; ok {
		r.ctx.Logger.Debug(r.ctx.Ctx, "node added twice", "node_id", id, "kind", string(e.Object.Kind))
		return
	}
	r.nodes[id] = e.Object
	r.Added++
}

func (r *Registry) handleRemove(e event.SceneObjectEvent) {
	if e.Object == nil {
		return
	}
	id := e.Object.ID()
	if _, ok := r.nodes[id]; !ok {
		r.ctx.Logger.Debug(r.ctx.Ctx, "removing unknown node", "node_id", id, "kind", string(e.Object.Kind))
		return
	}
	delete(r.nodes, id)
	r.Removed++
}

// Len returns the number of attached nodes
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Has reports whether node is attached
func (r *Registry) Has(node *scene.Node) bool {
	if node == nil {
		return false
	}
	_, ok := r.nodes[node.ID()]
	return ok
}

// CountKind returns the number of attached nodes of one kind
func (r *Registry) CountKind(kind scene.Kind) int {
	n := 0
	for _, node := range r.nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

// Nodes returns the attached nodes in draw order: back layers first, then by
// creation.
func (r *Registry) Nodes() []*scene.Node {
	out := make([]*scene.Node, 0, len(r.nodes))
	for _, node := range r.nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := layer(out[i].Kind), layer(out[j].Kind)
		if li != lj {
			return li < lj
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// layer orders kinds from background to foreground
func layer(kind scene.Kind) int {
	switch kind {
	case scene.KindParticle:
		return 0
	case scene.KindCollider:
		return 1
	case scene.KindProjectile:
		return 2
	case scene.KindPowerUp:
		return 3
	case scene.KindEnemy:
		return 4
	case scene.KindPlayer:
		return 5
	default:
		return 6
	}
}

// Close stops tracking scene changes. Attached nodes are kept for inspection.
func (r *Registry) Close() {
	r.scope.Close()
}
