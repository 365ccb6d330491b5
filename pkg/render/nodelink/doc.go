// Package nodelink renders relative ordering graphs as node-link diagrams.
//
// # Overview
//
// Each fragment that took part in relative ordering becomes a box; an arrow
// from A to B means A is loaded before B. Fragments classified before or
// after the others bucket are grouped in clusters on either side of the
// dashed others node, so the diagram reads left to right in load order.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(res.Graph, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the source locator and classification
//
// Fragments that carry no ordering metadata of their own are drawn with a
// dotted outline.
package nodelink
