/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package operations

import (
	"fmt"
	"math"
	"sort"

	"github.com/dimgraph/dimgraph/errors"
	"github.com/dimgraph/dimgraph/props"
)

// Built-in operation categories.
const (
	CategoryMath      = "math"
	CategoryTransform = "transform"
	CategoryQuery     = "query"
)

func registerBuiltins(r *Registry) {
	builtin := func(name, category, desc string, fn Fn) {
		// ids are stable for built-ins so they resolve by id across runs
		if _, err := r.Register(name, fn,
			WithID("builtin."+name),
			WithKind("builtin"),
			WithCategory(category),
			WithDescription(desc),
		); err != nil {
			panic(fmt.Sprintf("operations: built-in %q: %v", name, err))
		}
	}

	builtin("add", CategoryMath, "sum of all numeric arguments", opAdd)
	builtin("subtract", CategoryMath, "first argument minus the rest", opSubtract)
	builtin("multiply", CategoryMath, "product of all numeric arguments", opMultiply)
	builtin("divide", CategoryMath, "first argument divided by the rest", opDivide)
	builtin("sqrt", CategoryMath, "square root", opSqrt)
	builtin("pow", CategoryMath, "base raised to exponent", opPow)
	builtin("abs", CategoryMath, "absolute value", opAbs)

	builtin("sort", CategoryTransform, "list sorted ascending", opSort)
	builtin("reverse", CategoryTransform, "list in reverse order", opReverse)
	builtin("unique", CategoryTransform, "list with duplicates removed", opUnique)

	builtin("count", CategoryQuery, "number of list elements", opCount)
	builtin("first", CategoryQuery, "first list element", opFirst)
	builtin("last", CategoryQuery, "last list element", opLast)
	builtin("sum", CategoryQuery, "sum of list elements", opSum)
	builtin("min", CategoryQuery, "smallest list element", opMin)
	builtin("max", CategoryQuery, "largest list element", opMax)
}

// toNumber coerces a dynamically-typed argument to float64.
func toNumber(arg any) (float64, error) {
	if n, ok := props.FromAny(arg).AsNumber(); ok {
		return n, nil
	}
	return 0, errors.NewValidationError("argument", fmt.Sprintf("not a number: %v", arg))
}

// toList interprets the arguments as one list: a single slice argument is
// the list itself, otherwise the arguments are the elements.
func toList(args []any) []any {
	if len(args) != 1 {
		return args
	}
	switch t := args[0].(type) {
	case []any:
		return t
	case []float64:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out
	case []int:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out
	case []props.Value:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v.Interface()
		}
		return out
	default:
		return args
	}
}

func wantArgs(args []any, n int) error {
	if len(args) != n {
		return errors.NewValidationError("arguments", fmt.Sprintf("expected %d arguments, got %d", n, len(args)))
	}
	return nil
}

func opAdd(args ...any) (any, error) {
	total := 0.0
	for _, a := range args {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		total += n
	}
	return total, nil
}

func opSubtract(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, errors.NewValidationError("arguments", "subtract needs at least one argument")
	}
	total, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		total -= n
	}
	return total, nil
}

func opMultiply(args ...any) (any, error) {
	total := 1.0
	for _, a := range args {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		total *= n
	}
	return total, nil
}

func opDivide(args ...any) (any, error) {
	if len(args) < 2 {
		return nil, errors.NewValidationError("arguments", "divide needs at least two arguments")
	}
	total, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errors.NewDivisionByZeroError(total)
		}
		total /= n
	}
	return total, nil
}

func opSqrt(args ...any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.NewValidationError("argument", fmt.Sprintf("sqrt of negative number %v", n))
	}
	return math.Sqrt(n), nil
}

func opPow(args ...any) (any, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	base, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}
	return math.Pow(base, exp), nil
}

func opAbs(args ...any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	return math.Abs(n), nil
}

// element ordering for sort: numbers ascending, then strings ascending,
// then everything else by display form
func elemLess(a, b any) bool {
	an, aNum := props.FromAny(a).AsNumber()
	bn, bNum := props.FromAny(b).AsNumber()
	if aNum && bNum {
		return an < bn
	}
	if aNum != bNum {
		return aNum
	}
	as, aStr := props.FromAny(a).AsString()
	bs, bStr := props.FromAny(b).AsString()
	if aStr && bStr {
		return as < bs
	}
	if aStr != bStr {
		return aStr
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func opSort(args ...any) (any, error) {
	list := toList(args)
	out := make([]any, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return elemLess(out[i], out[j]) })
	return out, nil
}

func opReverse(args ...any) (any, error) {
	list := toList(args)
	out := make([]any, len(list))
	for i, v := range list {
		out[len(list)-1-i] = v
	}
	return out, nil
}

func opUnique(args ...any) (any, error) {
	list := toList(args)
	seen := make(map[string]bool, len(list))
	out := make([]any, 0, len(list))
	for _, v := range list {
		key, ok := props.FromAny(v).IndexKey()
		if !ok {
			key = fmt.Sprintf("%v", v)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out, nil
}

func opCount(args ...any) (any, error) {
	return float64(len(toList(args))), nil
}

func opFirst(args ...any) (any, error) {
	list := toList(args)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func opLast(args ...any) (any, error) {
	list := toList(args)
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func opSum(args ...any) (any, error) {
	total := 0.0
	for _, v := range toList(args) {
		n, err := toNumber(v)
		if err != nil {
			return nil, err
		}
		total += n
	}
	return total, nil
}

func opMin(args ...any) (any, error) {
	list := toList(args)
	if len(list) == 0 {
		return nil, errors.NewValidationError("arguments", "min of empty list")
	}
	best, err := toNumber(list[0])
	if err != nil {
		return nil, err
	}
	for _, v := range list[1:] {
		n, err := toNumber(v)
		if err != nil {
			return nil, err
		}
		if n < best {
			best = n
		}
	}
	return best, nil
}

func opMax(args ...any) (any, error) {
	list := toList(args)
	if len(list) == 0 {
		return nil, errors.NewValidationError("arguments", "max of empty list")
	}
	best, err := toNumber(list[0])
	if err != nil {
		return nil, err
	}
	for _, v := range list[1:] {
		n, err := toNumber(v)
		if err != nil {
			return nil, err
		}
		if n > best {
			best = n
		}
	}
	return best, nil
}
