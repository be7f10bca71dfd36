// Package pdf extracts page text from the corpus PDF volumes.
package pdf
