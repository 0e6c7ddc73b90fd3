// Package postgres provides PostgreSQL implementations of the store
// interfaces, using the pgx stdlib driver over database/sql. Every
// implementation accepts a store.DBTX so it can run against either a
// connection pool or an open transaction, and maps driver errors to the
// store package's sentinel errors via MapError.
package postgres
