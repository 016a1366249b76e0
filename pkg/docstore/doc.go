// Package docstore persists framewright documents.
//
// A document is the JSON form written by [io.Encode]: a versioned object
// holding the flat node array. Backends store it as opaque bytes under a
// validated document id:
//
//   - [MemoryStore]: in-process map, for tests and the HTTP server's
//     scratch mode.
//   - [FileStore]: one <id>.json file per document under a directory.
//   - [RedisStore]: one string key per document plus an index set.
//   - [MongoStore]: one collection document per id holding the payload.
//
// [LoadNodes] and [SaveNodes] encode and decode node arrays on top of any
// [Store] and report to the observability hooks.
//
// [io.Encode]: github.com/framewright/framewright/pkg/io.Encode
package docstore
