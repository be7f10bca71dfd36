// Package sqlite persists the snapshot's chunk metadata and the
// section catalogue. The database is written once by the build
// pipeline and opened read-only at query time: snapshots are never
// patched in place, only replaced wholesale.
package sqlite
