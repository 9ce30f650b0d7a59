// Package checksum fingerprints source files so two runs can be compared.
//
// The digest of the imported file is reported in the run summary and as a
// metric label, which tells an operator whether a reload actually picked up
// a new export.
package checksum
