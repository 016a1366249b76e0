// Package io provides JSON import and export for framewright documents.
//
// # JSON Format
//
// A document is a versioned object holding the flat node array:
//
//	{
//	  "version": 1,
//	  "nodes": [
//	    {"id": "desktop", "type": "viewport", "isViewport": true, "viewportWidth": 1440},
//	    {"id": "hero", "parentId": "desktop", "sharedId": "s-hero", "type": "frame"},
//	    {"id": "title", "parentId": "hero", "sharedId": "s-title", "type": "text",
//	     "style": {"width": "50%", "left": "20px"}}
//	  ]
//	}
//
// Array order is tree order: parents come before their children and
// siblings appear in display order. A bare array of nodes, without the
// wrapping object, is accepted on import.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to
// read from any io.Reader. Both return a loaded [store.Store]; the store
// validates every tree invariant during the load. [Decode] returns the raw
// node array without building a store.
//
// # Export
//
// Use [ExportJSON] to write a store to a file, or [WriteJSON] to write to
// any io.Writer. Placeholders are never exported. Export followed by import
// reproduces the same tree.
package io
