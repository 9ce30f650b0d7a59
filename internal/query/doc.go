// Package query answers read-only lookups over the loaded tables: a
// multi-word accent-insensitive search, a district with its lists, and a
// list with its candidates.
package query
