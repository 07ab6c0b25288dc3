/*
Package scene loads dimensions and entities from declarative YAML
documents.

	dimensions:
	  - name: main
	    width: 800
	    height: 600
	    entities:
	      - kind: circle
	        name: sun
	        position: center
	        props:
	          color: yellow
	        children:
	          - kind: text
	            name: label

Nested children are linked with AddChild, so the drilling navigation works
on loaded scenes exactly as on programmatically built ones.
*/
package scene
