// Package render groups the renderers for ordering results.
//
// The [nodelink] subpackage draws the relative ordering constraint graph as a
// Graphviz node-link diagram, grouped by before-others and after-others
// classification.
//
//	dot := nodelink.ToDOT(res.Graph, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/OpenLiberty/open-liberty-sub391/pkg/render/nodelink
package render
