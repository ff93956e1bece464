// Package assets manages the on-disk half of the library: one directory per
// piece under the configured root, holding that piece's sheet-music files
// with deterministic names. The directory tree is the authority on name
// uniqueness; callers consult it before touching catalog rows.
package assets
