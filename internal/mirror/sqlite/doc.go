// Package sqlite provides the SQLite-backed mirror store.
//
// Every collection shares one documents table:
//   - (collection, local_id) is the primary key
//   - remote_id is unique per collection when present
//   - parent_remote_id / parent_local_id carry the parent identifier
//   - body is a JSON document; partial updates use json_patch
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Rows are returned ORDER BY seq ASC, local_id ASC so that collection order
// is the order in which documents were first written.
package sqlite
