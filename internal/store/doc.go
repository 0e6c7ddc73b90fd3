// Package store defines the persistence interfaces consumed by the
// engine's services, along with the sentinel errors and transaction
// helpers shared by every implementation. Concrete PostgreSQL
// implementations live in internal/platform/postgres.
package store
