// Package scene serializes the contents of an editor.
//
// A [Scene] is the canonical exchange format for graphs with geometry. It is
// used by the CLI's scene files, the HTTP API, the document stores and the
// renderers. JSON, YAML and BSON encodings share the same field names:
//
//	{
//	  "nodes": [{"index": 0, "x": 10, "y": 20, "width": 40, "height": 30, "shape": "rectangle"}],
//	  "edges": [{"index": 0, "source": 0, "target": 1, "bends": [{"x": 15, "y": 40}]}],
//	  "algorithm": "force",
//	  "auto_layout": true
//	}
//
// Indices in a scene are the editor's indices at capture time. Loading a
// scene into an editor assigns fresh indices; [Load] returns the mapping.
package scene
