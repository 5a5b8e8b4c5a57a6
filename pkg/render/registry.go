package render

import (
	"maps"
	"slices"

	"github.com/matzehuels/schemeview/pkg/scheme"
)

// Registry maps component type tags to renderers.
//
// A Registry is populated once before rendering starts and only read
// afterwards.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// DefaultRegistry returns a registry with the built-in component kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(scheme.TypeStaticText, StaticTextRenderer{})
	r.Register(scheme.TypeDynamicText, DynamicTextRenderer{})
	r.Register(scheme.TypeStaticPicture, StaticPictureRenderer{})
	r.Register(scheme.TypeDynamicPicture, DynamicPictureRenderer{})
	return r
}

// Register sets the renderer for a type tag, replacing any previous one.
func (r *Registry) Register(typeName string, rr Renderer) {
	r.renderers[typeName] = rr
}

// Get returns the renderer for a type tag.
func (r *Registry) Get(typeName string) (Renderer, bool) {
	rr, ok := r.renderers[typeName]
	return rr, ok
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.renderers))
}
