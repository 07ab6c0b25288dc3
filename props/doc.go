/*
Package props models the open, dynamically-typed attribute bags carried by
entities.

A Value is a tagged union over number, string, bool, nested map, and list,
so arbitrary custom data keeps its shape while remaining statically
checkable. A Map is the attribute bag itself.

	bag := props.Map{
	    "color":  props.String("red"),
	    "radius": props.Number(12),
	    "solid":  props.Bool(true),
	}

Values cross provider boundaries as plain Go values (map[string]any);
FromAny / FromAnyMap and Interface / ToAny convert in both directions.
Serialization is deterministic: ToAny walks keys in sorted order.
*/
package props
