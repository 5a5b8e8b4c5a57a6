// Package render turns scheme components into styled nodes and keeps them in
// sync with live channel data.
//
// # Overview
//
// Every component kind has a [Renderer] with two operations:
//
//   - CreateDom builds the component's node once, when the scheme is loaded,
//     and binds its pointer handlers.
//   - Update re-applies data-driven style on every refresh tick.
//
// Renderers never return errors. A component whose properties are missing or
// of the wrong kind simply gets no node, an image that cannot be resolved
// leaves the background empty, and a channel without data leaves colors as
// they are.
//
// # Dispatch
//
// A [Registry] maps fully-qualified type tags to renderers. It is an explicit
// value created by the caller; [DefaultRegistry] returns one populated with the
// four built-in kinds, and further kinds can be added with [Registry.Register].
//
//	reg := render.DefaultRegistry()
//	if r, ok := reg.Get(c.TypeName); ok {
//	    r.CreateDom(c, ctx)
//	}
//
// # Colors
//
// Color properties may hold the reserved value "Status", meaning "use the
// status color of the bound input channel". Wherever a hover variant exists,
// the effective color is chosen first (hover wins while the node is hovered
// and the hover color is set), and "Status" is substituted once afterwards
// with the color of the current datum. Update and both hover handlers apply
// the same rule, so the result only depends on the current hover state and
// the current snapshot.
//
// # Sinks
//
// Renderers style nodes through the [sink] interfaces. The [dom] subpackage
// is the in-memory implementation used by the live server, the CLI and the
// tests.
//
// [sink]: github.com/matzehuels/schemeview/pkg/render/sink
// [dom]: github.com/matzehuels/schemeview/pkg/render/sink/dom
package render
