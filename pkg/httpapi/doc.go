// Package httpapi serves one editor session over HTTP.
//
// All routes exchange JSON. Mutating routes go through the [editor.Editor]
// so viewport propagation and history behave as in the CLI. A single
// mutex serialises every request; the editor is not safe for concurrent
// use.
//
//	GET    /version
//	GET    /nodes
//	GET    /nodes/{id}
//	GET    /nodes/{id}/children
//	POST   /nodes                  {"node": {...}, "parentId": "...", "index": -1}
//	POST   /nodes/{id}/move        {"targetId": "...", "position": "after"}
//	PATCH  /nodes/{id}/style       {"color": "red", "width": null}
//	DELETE /nodes/{id}
//	POST   /nodes/{id}/duplicate
//	POST   /sync
//	POST   /undo
//	POST   /redo
//	POST   /save                   ?document=<id>
//
// # Errors
//
// Failures are reported as {"error": {"code": ..., "message": ...}} with
// the status derived from the [errors.Code]. Tree invariant violations
// from the store map to CONFLICT, unknown nodes to NOT_FOUND.
//
// [errors.Code]: github.com/framewright/framewright/pkg/errors.Code
package httpapi
