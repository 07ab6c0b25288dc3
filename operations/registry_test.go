/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package operations

import (
	"fmt"
	"testing"

	"github.com/dimgraph/dimgraph/errors"
)

func TestRegisterAndCall(t *testing.T) {
	reg := NewRegistry()

	op, err := reg.Register("double", func(args ...any) (any, error) {
		n, err := toNumber(args[0])
		if err != nil {
			return nil, err
		}
		return n * 2, nil
	}, WithCategory("custom"), WithDescription("twice the input"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if op.ID() == "" {
		t.Error("Registered operation should get a generated id")
	}

	got, err := reg.Call("double", 21)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != 42.0 {
		t.Errorf("Call = %v", got)
	}
}

func TestCallResolvesNameThenID(t *testing.T) {
	reg := NewRegistry()

	// an operation whose NAME collides with another operation's ID
	byID, _ := reg.Register("target", func(args ...any) (any, error) {
		return "by-id", nil
	}, WithID("shared"))
	byName, _ := reg.Register("shared", func(args ...any) (any, error) {
		return "by-name", nil
	})

	t.Run("name wins", func(t *testing.T) {
		got, err := reg.Call("shared")
		if err != nil {
			t.Fatal(err)
		}
		if got != "by-name" {
			t.Errorf("Call(shared) = %v, name resolution must come first", got)
		}
	})

	t.Run("id as fallback", func(t *testing.T) {
		if reg.Get(byID.ID()) != byID {
			t.Error("Get by id failed")
		}
		got, err := reg.Call(byName.ID())
		if err != nil {
			t.Fatal(err)
		}
		if got != "by-name" {
			t.Errorf("Call by id = %v", got)
		}
	})
}

func TestCallUnknownOperation(t *testing.T) {
	reg := NewWithBuiltins()
	_, err := reg.Call("levitate")
	if !errors.IsOperationNotFound(err) {
		t.Errorf("Expected OperationNotFoundError, got %v", err)
	}
}

func TestRegisterDuplicateID(t *testing.T) {
	reg := NewRegistry()
	noop := func(args ...any) (any, error) { return nil, nil }

	if _, err := reg.Register("a", noop, WithID("op-1")); err != nil {
		t.Fatal(err)
	}
	_, err := reg.Register("b", noop, WithID("op-1"))
	if !errors.IsDuplicateID(err) {
		t.Errorf("Expected DuplicateIDError, got %v", err)
	}
}

func TestBodyErrorsPropagate(t *testing.T) {
	reg := NewRegistry()
	boom := fmt.Errorf("bad input")
	reg.Register("fail", func(args ...any) (any, error) { return nil, boom })

	_, err := reg.Call("fail")
	if err != boom {
		t.Errorf("Body error should pass through unchanged, got %v", err)
	}
}

func TestRegistryLookups(t *testing.T) {
	reg := NewWithBuiltins()

	t.Run("Has", func(t *testing.T) {
		if !reg.Has("add") || !reg.Has("builtin.add") {
			t.Error("Built-ins should resolve by name and id")
		}
		if reg.Has("levitate") {
			t.Error("Unknown name should not resolve")
		}
	})

	t.Run("ByCategory", func(t *testing.T) {
		math := reg.ByCategory(CategoryMath)
		if len(math) != 7 {
			t.Errorf("Expected 7 math built-ins, got %d", len(math))
		}
		if len(reg.ByCategory(CategoryTransform)) != 3 {
			t.Error("Expected 3 transform built-ins")
		}
		if len(reg.ByCategory(CategoryQuery)) != 6 {
			t.Error("Expected 6 query built-ins")
		}
	})

	t.Run("ByKind", func(t *testing.T) {
		if len(reg.ByKind("builtin")) != 16 {
			t.Errorf("Expected 16 built-ins, got %d", len(reg.ByKind("builtin")))
		}
	})

	t.Run("All sorted by name", func(t *testing.T) {
		all := reg.All()
		if len(all) != 16 {
			t.Fatalf("All = %d operations", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i-1].Name() > all[i].Name() {
				t.Fatalf("All not sorted: %q before %q", all[i-1].Name(), all[i].Name())
			}
		}
	})

	t.Run("Clear", func(t *testing.T) {
		reg.Clear()
		if reg.Has("add") || len(reg.All()) != 0 {
			t.Error("Clear should drop every operation")
		}
	})
}

func TestOperationLinkGraph(t *testing.T) {
	reg := NewRegistry()
	noop := func(args ...any) (any, error) { return nil, nil }

	pipeline, _ := reg.Register("pipeline", noop)
	extract, _ := reg.Register("extract", noop)
	load, _ := reg.Register("load", noop)

	pipeline.Link(extract).Link(load)

	t.Run("Child", func(t *testing.T) {
		if pipeline.Child() != extract {
			t.Error("Child() should return the first link")
		}
		if pipeline.Child("load") != load {
			t.Error("Child(load) failed")
		}
		if pipeline.Child("ghost") != nil {
			t.Error("Unknown child should be nil")
		}
	})

	t.Run("Parent", func(t *testing.T) {
		if extract.Parent() != pipeline || load.Parent() != pipeline {
			t.Error("Linked operations should report their parent")
		}
		if pipeline.Parent() != nil {
			t.Error("Root operation should have no parent")
		}
	})

	t.Run("relink moves", func(t *testing.T) {
		other, _ := reg.Register("other", noop)
		other.Link(load)

		if load.Parent() != other {
			t.Error("Link should move a child linked elsewhere")
		}
		if pipeline.Child("load") != nil {
			t.Error("Old parent should drop a moved child")
		}
	})
}

func TestOperationToMap(t *testing.T) {
	reg := NewWithBuiltins()
	m := reg.Get("add").ToMap()
	if m["id"] != "builtin.add" || m["name"] != "add" || m["kind"] != "builtin" || m["category"] != CategoryMath {
		t.Errorf("ToMap = %v", m)
	}
}
