// Package amalgam combines a header template and the local headers it
// references into a single self-contained file.
//
// # Walk
//
// The template is read line by line. Quoted includes are expanded in place
// the first time their name is seen, recursively, each nested file resolving
// its own quoted includes against its own directory. Angle-bracket includes
// are removed from the text and collected:
//
//	inliner := amalgam.New(nil)
//	result, err := inliner.Combine(ctx, "inc/argum", "inc/argum.h.in", "single-file/argum.h")
//
// A leading run of // comment lines is dropped from every inlined header so
// that per-file license banners do not repeat. The template keeps its own.
//
// # Placeholders
//
// Two literal tokens are replaced in the expanded text:
//
//	##SYS_INCLUDES##  sorted, deduplicated "#include <X>" lines, each preceded by a newline
//	##NAME##          output base name, dots replaced by underscores, upper-cased
//
// # Errors
//
// A missing template or header is a user error, I/O failures are system
// errors, and an include cycle fails with ErrIncludeCycle. Nothing is written
// unless the whole text was assembled.
package amalgam
