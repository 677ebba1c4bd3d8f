// Package pseudonym maps opaque upstream identifiers to small sequential
// integers so that raw identifiers never reach the calling agent.
//
// A Registry keeps one bidirectional table per identifier field name.
// Integers are assigned per field starting at 1 in insertion order; the
// same raw value always maps to the same integer, and entries are never
// removed for the lifetime of the process. The same integer may denote
// different raw values under different field names.
//
// Normalize rewrites a JSON-like response tree, replacing raw string
// values under known identifier keys with their assigned integers.
// Denormalize reverses the walk, and Resolve recovers a single raw
// identifier for follow-up upstream calls.
//
// This is pseudonymization, not encryption: the goal is to keep
// identifiers short, stable across a response tree, and impossible for an
// agent to fabricate, not to shield them from a caller with access to
// the registry itself.
package pseudonym
