// Package manifest locates declared dependencies inside package.json text.
//
// # Overview
//
// [Parse] scans the "dependencies" and "devDependencies" objects of a
// package.json document and returns one [Dependency] per string-valued entry,
// carrying the exact byte range and line of the version token:
//
//	deps := manifest.Parse(text)
//	for _, d := range deps {
//	    fmt.Println(d.Name, d.Constraint, d.Start, d.End, d.Line)
//	}
//
// Parsing never fails: malformed documents and missing or non-object sections
// simply contribute no records. Records are snapshots of the text they were
// parsed from; re-parse after every edit.
//
// # Editing
//
// [ReplaceVersion] swaps the token at a record's range for a new version,
// keeping the surrounding quote characters intact:
//
//	out, err := manifest.ReplaceVersion(text, d.Start, d.End, "2.0.0")
//
// [At] maps a cursor offset back to the record whose version token contains it.
package manifest
