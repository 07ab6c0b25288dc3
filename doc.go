/*
Package dimgraph provides an in-memory entity graph with multi-key indexing
and a pluggable cache-aside datastore layer.

Entities live in Dimensions (named spaces with canvas-like extents used to
resolve symbolic positions) and are indexed process-wide by a Registry that
answers lookups by id, name, kind, attribute value, and dimension. Entities
link to each other through parent/child edges and are navigated by drilling
(down to children, up to the parent, across to siblings).

Key Features:
  - Explicit Registry context with a clear() lifecycle, no global state
  - Four secondary indices kept consistent under a single writer lock
  - Chainable entity mutation (SetProp, SetProps, AddChild)
  - Named operations with their own registry and built-in math/transform/query set
  - Cache-aside datastores over pluggable fetch/persist providers
    (DynamoDB, Redis, SQLite, mock)
  - YAML scene loading for declarative dimension/entity setup

Basic Usage:

	reg := dimgraph.New()
	dim := reg.NewDimension("main", 800, 600)

	car, _ := dim.CreateRect("car", "center", props.Map{
	    "color": props.String("red"),
	})
	car.SetProp("speed", props.Number(120))

	for _, e := range reg.ByAttribute("color", props.String("red")) {
	    fmt.Println(e.Name())
	}

For the cache-aside layer, see the datastore package; for named operations,
see the operations package.
*/
package dimgraph
