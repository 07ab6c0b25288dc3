/*
Package operations provides a named-function catalog with id/name/kind/
category indexing, independent of the entity graph.

A Registry resolves calls by name first, then by id:

	ops := operations.NewWithBuiltins()

	sum, _ := ops.Call("add", 10, 5)        // 15
	_, err := ops.Call("divide", 10, 0)     // errors.ErrDivisionByZero

	ops.Register("greet", func(args ...any) (any, error) {
	    return fmt.Sprintf("hello %v", args[0]), nil
	}, operations.WithCategory("text"))

Operations expose drilling-style navigation (Link, Child, Parent) that
builds an operation-to-operation graph; it never touches entity
relationships.

Built-ins are pre-registered by NewWithBuiltins under stable
"builtin.<name>" ids: math (add, subtract, multiply, divide, sqrt, pow,
abs), transform (sort, reverse, unique), and query (count, first, last,
sum, min, max). divide fails with a DivisionByZeroError instead of
silently producing Inf or NaN.
*/
package operations
