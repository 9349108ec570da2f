// Package storage provides assessment store backends.
//
// Three backends implement assessment.Storage:
//
//   - MemoryStorage: map-backed, for tests and local development
//   - SQLiteStorage: database/sql over mattn/go-sqlite3 or modernc.org/sqlite
//   - PostgresStorage: database/sql over the pgx stdlib driver, with
//     golang-migrate migrations embedded in the binary
//
// All backends return *assessment.StorageError for store failures and bound
// every SQL call with the configured query timeout.
//
// # Deletion
//
// DeleteByIDs removes ids in chunks of DeleteChunkSize. Chunks are committed
// independently; if a chunk fails, the count of rows removed by earlier
// chunks is returned alongside the error.
package storage
