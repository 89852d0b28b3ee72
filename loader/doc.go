// Package loader reads the HR policy corpus from disk.
//
// DirectoryLoader walks a corpus directory, parses every HTML page it finds
// and returns one core.Document per file. Text extraction drops non-content
// elements (scripts, styles, navigation) and turns block-level markup into
// line and paragraph breaks so the chunker can split on them.
//
// Loading is all or nothing: a single unreadable or unparsable file fails
// the whole load with core.ErrLoad.
package loader
