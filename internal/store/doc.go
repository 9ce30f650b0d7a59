// Package store owns every write against the target database: the schema
// reset, the bulk loads, the head-of-list repair and the deferred indexes.
//
// All operations take an importer.DBConnection so a run uses one session from
// start to finish. Each operation runs in its own transaction, except the
// candidate load which commits once per batch.
package store
