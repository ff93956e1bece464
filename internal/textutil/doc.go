// Package textutil provides text processing helpers for filesystem naming.
//
// Piece directories and sheet-music filenames are derived from user-supplied
// display names, so every path segment the asset store touches goes through
// SanitizeFileName first. The sanitizer normalizes unicode, strips control
// characters, and replaces separators and other path-hostile characters while
// preserving spaces and diacritics, keeping on-disk names human readable.
package textutil
