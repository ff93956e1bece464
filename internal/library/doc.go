// Package library coordinates paired mutations of the catalog database and
// the on-disk asset store. The two resources share no transaction, so every
// compound operation here follows a strict ordering: directory creation
// precedes row insertion for pieces, row insertion precedes byte writes for
// files, and row deletion precedes disk deletion for removals. Compensation
// steps undo the half that succeeded when the other half fails.
package library
