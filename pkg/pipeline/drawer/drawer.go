// Package drawer renders a pipeline's step sequence as a DOT graph file.
package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint
)

// Drawer accumulates a directed graph of pipeline steps and writes it in
// DOT format.
type Drawer struct {
	fileName string
	graph    graph.Graph[string, string]
}

// New creates a drawer that writes to fileName.
func New(fileName string) *Drawer {
	return &Drawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStep adds one step vertex. Committed steps are filled green, pending
// steps gray.
func (d *Drawer) AddStep(name string, committed bool) error {
	err := d.graph.AddVertex(name,
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", fillColor(committed)),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds the execution-order edge between two steps.
func (d *Drawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// Draw writes the accumulated graph to the configured file.
func (d *Drawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.fileName)
	}

	return nil
}

func fillColor(committed bool) string {
	if committed {
		green, err := colors.RGB(144, 238, 144) //nolint
		if err != nil {
			return "green"
		}

		return green.ToHEX().String()
	}
	gray, err := colors.RGB(211, 211, 211) //nolint
	if err != nil {
		return "gray"
	}

	return gray.ToHEX().String()
}

const dotTemplate = `strict digraph {
{{range .Vertices}}	"{{.Name}}" [ {{.Attrs}} ];
{{end}}{{range .Edges}}	"{{.Source}}" -> "{{.Target}}";
{{end}}}
`

type description struct {
	Vertices []vertex
	Edges    []edge
}

type vertex struct {
	Name  string
	Attrs string
}

type edge struct {
	Source string
	Target string
}

// dot writes the graph in DOT format with vertices and edges in sorted
// order, so repeated draws of the same pipeline produce identical files.
func dot(g graph.Graph[string, string], w io.Writer) error {
	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return fmt.Errorf("failed to read adjacency map: %w", err)
	}

	var desc description
	for name, adjacencies := range adjacencyMap {
		_, properties, err := g.VertexWithProperties(name)
		if err != nil {
			return fmt.Errorf("failed to read vertex %s: %w", name, err)
		}
		desc.Vertices = append(desc.Vertices, vertex{Name: name, Attrs: renderAttrs(properties.Attributes)})
		for target := range adjacencies {
			desc.Edges = append(desc.Edges, edge{Source: name, Target: target})
		}
	}
	sort.Slice(desc.Vertices, func(i, j int) bool { return desc.Vertices[i].Name < desc.Vertices[j].Name })
	sort.Slice(desc.Edges, func(i, j int) bool { return desc.Edges[i].Source < desc.Edges[j].Source })

	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return tpl.Execute(w, desc)
}

func renderAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, attrs[k]))
	}

	return strings.Join(parts, ", ")
}
