/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package dimgraph

import (
	"testing"

	"github.com/dimgraph/dimgraph/props"
)

func TestEntityProps(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)
	car, _ := dim.CreateRect("car", "center", props.Map{"color": props.String("red")})

	t.Run("read", func(t *testing.T) {
		if got := car.Prop("color"); !got.Equal(props.String("red")) {
			t.Errorf("Prop(color) = %v", got)
		}
		if got := car.Prop("ghost"); !got.IsZero() {
			t.Errorf("Missing prop should be the zero value, got %v", got)
		}
	})

	t.Run("set reindexes", func(t *testing.T) {
		car.SetProp("color", props.String("blue"))

		if len(reg.ByAttribute("color", props.String("red"))) != 0 {
			t.Error("Stale attribute bucket must be dropped on SetProp")
		}
		blue := reg.ByAttribute("color", props.String("blue"))
		if len(blue) != 1 || blue[0] != car {
			t.Errorf("ByAttribute(color, blue) = %v", blue)
		}
	})

	t.Run("set many", func(t *testing.T) {
		car.SetProps(props.Map{
			"speed":  props.Number(120),
			"parked": props.Bool(false),
		})
		if got := car.Prop("speed"); !got.Equal(props.Number(120)) {
			t.Errorf("Prop(speed) = %v", got)
		}
		if len(reg.ByAttribute("speed", props.Number(120))) != 1 {
			t.Error("Numeric props should be attribute-indexed")
		}
	})

	t.Run("props snapshot is a copy", func(t *testing.T) {
		snap := car.Props()
		snap["color"] = props.String("green")
		if !car.Prop("color").Equal(props.String("blue")) {
			t.Error("Mutating the Props snapshot must not touch the entity")
		}
	})
}

func TestEntityRename(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)
	e, _ := dim.CreateRect("car", "", nil)

	e.SetName("truck")

	if len(reg.ByName("car")) != 0 {
		t.Error("Old name still indexed after SetName")
	}
	got := reg.ByName("truck")
	if len(got) != 1 || got[0] != e {
		t.Errorf("ByName(truck) = %v", got)
	}
}

func TestEntityChangeKind(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)
	e, _ := dim.CreateRect("shape", "", nil)

	e.SetKind(KindCircle)

	if len(reg.ByKind(KindRect)) != 0 {
		t.Error("Old kind still indexed after SetKind")
	}
	if got := reg.ByKind(KindCircle); len(got) != 1 || got[0] != e {
		t.Errorf("ByKind(circle) = %v", got)
	}
}

func TestEntityMoveTo(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)
	e, _ := dim.CreatePoint("p", "center", nil)

	e.MoveTo(10, 20).MoveTo(30, 40)

	x, y := e.Pos()
	if x != 30 || y != 40 {
		t.Errorf("Pos = (%v, %v), want (30, 40)", x, y)
	}
}

func TestEntityDrilling(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)

	car, _ := dim.CreateGroup("car", "center", nil)
	body, _ := dim.CreateRect("body", "", nil)
	frontWheel, _ := dim.CreateCircle("wheel", "", props.Map{"side": props.String("front")})
	rearWheel, _ := dim.CreateCircle("wheel", "", props.Map{"side": props.String("rear")})
	hub, _ := dim.CreateCircle("hub", "", nil)

	car.AddChild(body).AddChild(frontWheel).AddChild(rearWheel)
	frontWheel.AddChild(hub)

	t.Run("DrillDown", func(t *testing.T) {
		if got := car.DrillDown(); got != body {
			t.Errorf("DrillDown() = %v, want first child", got)
		}
		if got := car.DrillDown("wheel"); got != frontWheel {
			t.Errorf("DrillDown(wheel) = %v, want first wheel", got)
		}
		if got := car.DrillDown("ghost"); got != nil {
			t.Errorf("DrillDown(ghost) = %v, want nil", got)
		}
		if got := hub.DrillDown(); got != nil {
			t.Error("DrillDown on a leaf should be nil")
		}
	})

	t.Run("DrillUp", func(t *testing.T) {
		if hub.DrillUp() != frontWheel {
			t.Error("DrillUp should return the parent")
		}
		if hub.DrillUp().DrillUp() != car {
			t.Error("DrillUp should chain to the root")
		}
		if car.DrillUp() != nil {
			t.Error("DrillUp on a root should be nil")
		}
	})

	t.Run("DrillAcross", func(t *testing.T) {
		if got := frontWheel.DrillAcross("wheel"); got != rearWheel {
			t.Errorf("DrillAcross(wheel) = %v, want the sibling wheel", got)
		}
		if got := frontWheel.DrillAcross("body"); got != body {
			t.Errorf("DrillAcross(body) = %v", got)
		}
		if got := car.DrillAcross("anything"); got != nil {
			t.Error("DrillAcross on a root should be nil")
		}
	})

	t.Run("Select", func(t *testing.T) {
		got := car.Select("wheel")
		if len(got) != 2 || got[0] != frontWheel || got[1] != rearWheel {
			t.Errorf("Select(wheel) = %v", got)
		}
		if got := car.Select(); len(got) != 3 {
			t.Errorf("Select() should return all children, got %d", len(got))
		}
	})
}

func TestEntityAddChildReparents(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)

	a, _ := dim.CreateGroup("a", "", nil)
	b, _ := dim.CreateGroup("b", "", nil)
	child, _ := dim.CreatePoint("p", "", nil)

	a.AddChild(child)
	b.AddChild(child)

	if child.DrillUp() != b {
		t.Error("AddChild should re-parent the child")
	}
	if len(a.Children()) != 0 {
		t.Error("Old parent must drop a re-parented child")
	}

	// idempotent under repeated adds
	b.AddChild(child)
	if len(b.Children()) != 1 {
		t.Errorf("Repeated AddChild should not duplicate, got %d children", len(b.Children()))
	}
}

func TestEntityToMapRoundTrip(t *testing.T) {
	reg := New()
	dim := reg.NewDimension("main", 800, 600)
	car, _ := dim.CreateRect("car", "", props.Map{
		"color": props.String("red"),
		"doors": props.Number(4),
	})
	car.MoveTo(15, 25)

	m := car.ToMap()
	if m["id"] != car.ID() || m["name"] != "car" || m["kind"] != KindRect {
		t.Errorf("ToMap = %v", m)
	}

	other := New()
	dim2 := other.NewDimension("main", 800, 600)
	clone, err := dim2.Materialize(m)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if clone.ID() != car.ID() || clone.Name() != car.Name() || clone.Kind() != car.Kind() {
		t.Error("Round trip lost identity fields")
	}
	x, y := clone.Pos()
	if x != 15 || y != 25 {
		t.Errorf("Round trip lost position: (%v, %v)", x, y)
	}
	if !clone.Props().Equal(car.Props()) {
		t.Errorf("Round trip lost props: %v vs %v", clone.Props(), car.Props())
	}
}
