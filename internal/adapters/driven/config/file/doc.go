// Package file loads regnav settings from a TOML file, falling back
// to built-in defaults for anything unset.
package file
