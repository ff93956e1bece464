// Package catalog manages relational persistence for the sheet-music
// catalog backed by SQLite.
//
// It owns the entity model (groups, parts, instruments, events, pieces,
// instrumentations, files, transposes and their association tables) and
// exposes per-entity CRUD, typed query filters, and the cascade deletes the
// consistency coordinator builds on. The store enforces referential
// integrity but deliberately no name uniqueness: the filesystem asset store
// is the authority on whether a piece or file name is taken.
package catalog
