// Package source locates, decodes and parses the semicolon-delimited candidate file.
//
// Parsing produces one strongly typed Record per data row. Column names are resolved
// against the header once; extractors never look fields up by name.
//
// # Missing values
//
// An empty field is stored as an invalid pgtype.Text (SQL NULL downstream). A field made
// of spaces, or holding "0", is a present value and is kept verbatim.
package source
