// Package hcl decodes graph definition files written in HCL.
//
//	node "example" { url = "https://www.example.com" }
//	node "python"  { url = "https://www.python.org" }
//	edge { from = "example"  to = "python"  func = "scrape_title" }
//
// Expressions may reference var.<name>, supplied by the caller.
package hcl

import (
	"os"
	"strings"

	"github.com/fwojciec/webgraph"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFunc is the edge function used when an edge block omits func.
const DefaultFunc = "scrape_title"

type graphFile struct {
	Nodes []*nodeBlock `hcl:"node,block"`
	Edges []*edgeBlock `hcl:"edge,block"`
}

type nodeBlock struct {
	Label string `hcl:"label,label"`
	URL   string `hcl:"url"`
	Title string `hcl:"title,optional"`
}

type edgeBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
	Func string `hcl:"func,optional"`
}

// DecodeFile reads and decodes the graph definition at path.
func DecodeFile(path string, vars map[string]string) (*webgraph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, src, vars)
}

// Decode parses src as a graph definition. Files named *.json use HCL's
// JSON syntax. Nodes and edges keep their file order.
func Decode(filename string, src []byte, vars map[string]string) (*webgraph.Graph, error) {
	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.HasSuffix(filename, ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, webgraph.Errorf(webgraph.EINVALID, "parse %s: %s", filename, diags.Error())
	}

	var parsed graphFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(vars), &parsed); diags.HasErrors() {
		return nil, webgraph.Errorf(webgraph.EINVALID, "decode %s: %s", filename, diags.Error())
	}

	return build(filename, &parsed)
}

func build(filename string, f *graphFile) (*webgraph.Graph, error) {
	g := webgraph.NewGraph()
	urls := make(map[string]string, len(f.Nodes))
	for _, n := range f.Nodes {
		if _, ok := urls[n.Label]; ok {
			return nil, webgraph.Errorf(webgraph.EINVALID, "%s: duplicate node %q", filename, n.Label)
		}
		node := &webgraph.Node{URL: n.URL, Title: n.Title}
		if err := g.PutNode(node); err != nil {
			return nil, webgraph.Errorf(webgraph.EINVALID, "%s: node %q: %s", filename, n.Label, webgraph.ErrorMessage(err))
		}
		urls[n.Label] = n.URL
	}

	for i, e := range f.Edges {
		from, ok := urls[e.From]
		if !ok {
			return nil, webgraph.Errorf(webgraph.EINVALID, "%s: edge %d: unknown node %q", filename, i+1, e.From)
		}
		to, ok := urls[e.To]
		if !ok {
			return nil, webgraph.Errorf(webgraph.EINVALID, "%s: edge %d: unknown node %q", filename, i+1, e.To)
		}
		fn := e.Func
		if fn == "" {
			fn = DefaultFunc
		}
		if err := g.AddEdge(webgraph.Edge{From: from, To: to, Func: fn}); err != nil {
			return nil, webgraph.Errorf(webgraph.EINVALID, "%s: edge %d: %s", filename, i+1, webgraph.ErrorMessage(err))
		}
	}
	return g, nil
}

func evalContext(vars map[string]string) *hcl.EvalContext {
	values := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		values[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
	}
}

// ParseVars parses "key=value" pairs as given on the command line.
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, webgraph.Errorf(webgraph.EINVALID, "invalid variable %q, expected key=value", p)
		}
		vars[strings.TrimSpace(k)] = v
	}
	return vars, nil
}
