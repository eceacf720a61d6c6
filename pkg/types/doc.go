// Package types defines the puzzle catalog data model, the Store and Table
// interfaces for durable local state, configuration, and the standard errors
// shared by every puzzlebook package.
//
// Records and the infeasibility map are read-only once loaded. Everything a
// user changes (solved flags, ink, theme) goes through a Store.
package types
