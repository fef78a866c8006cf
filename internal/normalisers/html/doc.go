// Package html provides a Normaliser implementation for HTML résumés.
// It extracts readable text, dropping scripts and styles, decoding entities,
// and upper-casing headings so they mark section boundaries.
package html
