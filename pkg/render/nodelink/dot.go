package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the locator and classification in node labels.
	// When false, only the fragment name is shown.
	Detailed bool
}

var clusters = []struct {
	class fragment.Classification
	id    string
	label string
}{
	{fragment.ClassBeforeOthers, "cluster_before", "before others"},
	{fragment.ClassAfterOthers, "cluster_after", "after others"},
}

// ToDOT converts an ordering graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
// A nil graph yields an empty digraph.
func ToDOT(g *fragment.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if g == nil {
		buf.WriteString("}\n")
		return buf.String()
	}
	buf.WriteString("\n")

	for _, c := range clusters {
		var members []fragment.GraphNode
		for _, n := range g.Nodes {
			if n.Class == c.class {
				members = append(members, n)
			}
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph %s {\n", c.id)
		fmt.Fprintf(&buf, "    label=%s;\n", quote(c.label))
		buf.WriteString("    style=dashed;\n")
		for _, n := range members {
			fmt.Fprintf(&buf, "    %s [%s];\n", quote(n.Name), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	for _, n := range g.Nodes {
		if n.Class == fragment.ClassBeforeOthers || n.Class == fragment.ClassAfterOthers {
			continue
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.Name), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.Before), quote(e.After))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotEscaper escapes a DOT quoted string. Line breaks become DOT's centered
// line break escape; everything else, including non-ASCII text, is kept as is.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func fmtLabel(n fragment.GraphNode, detailed bool) string {
	if !detailed || n.Others {
		return n.Name
	}
	return n.Name + "\n" + n.Locator + "\n" + n.Class.String()
}

func fmtAttrs(n fragment.GraphNode, detailed bool) []string {
	attrs := []string{"label=" + quote(fmtLabel(n, detailed))}
	switch {
	case n.Others:
		attrs = append(attrs, "shape=ellipse", "style=\"filled,dashed\"", "fillcolor=lightgrey")
	case !n.Declared:
		attrs = append(attrs, "style=\"rounded,filled,dotted\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> header with one whose origin
// is zero and whose size matches the view box, so the SVG scales cleanly when
// embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
