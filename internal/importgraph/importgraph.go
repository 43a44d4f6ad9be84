// Package importgraph is the input contract describing, for each source
// file, which symbols it imports and from where. Resolution (turning an
// import path into a concrete file, and detecting import cycles) is the
// module resolver's job, external to the middle end; this
// package only carries the already-resolved result, grounded on the
// teacher's module/loader.go and module/resolver.go symbol tables.
package importgraph

// Edge is one imported symbol and the file it comes from.
type Edge struct {
	Symbol     string
	SourceFile string
}

// Graph maps each file in a compilation unit to the list of symbols it
// imports, already resolved to a concrete source file.
type Graph struct {
	edges map[string][]Edge
	// order is the topological processing order the resolver computed:
	// files are processed in topological order of the import graph,
	// resolved before the middle end starts.
	order []string
}

// NewGraph constructs an import graph for the given topological file order.
func NewGraph(order []string) *Graph {
	return &Graph{
		edges: make(map[string][]Edge),
		order: append([]string(nil), order...),
	}
}

// AddEdge records that file imports symbol from source.
func (g *Graph) AddEdge(file, symbol, source string) {
	g.edges[file] = append(g.edges[file], Edge{Symbol: symbol, SourceFile: source})
}

// Imports returns the import edges for one file, in declaration order.
func (g *Graph) Imports(file string) []Edge {
	return g.edges[file]
}

// Order returns the files of the compilation unit in the topological order
// the middle end must process them in.
func (g *Graph) Order() []string {
	return g.order
}
