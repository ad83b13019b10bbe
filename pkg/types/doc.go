// Package types defines the Store and Backend interfaces, the persisted and
// in-memory record types, and the standard errors for the Blueprint career
// ledger.
//
// Records are JSON documents addressed by (entity type, id). The entity type
// is a namespace string; the id is chosen by the caller and unique within
// its namespace.
package types
