// Package extract derives the three entity row sets from parsed source records.
//
// Extractors are pure: they never touch the database and always emit rows in
// first-seen source order so that fixtures stay deterministic. Rows are
// deduplicated on their primary key with the first occurrence winning.
//
// A present but non-numeric panel number or rank is an input error naming
// the source line and column. Rows where those values are missing are
// skipped, as are rows without a district code.
package extract
