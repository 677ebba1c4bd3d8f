// Package search is the caller-facing service layer over the Intelligence X
// API. It binds the generic poll engine to the four search families
// (intelligent search, phonebook, identity, account export), flattens raw
// upstream records into their canonical shapes, and pseudonymizes every
// identifier in the response tree before anything is returned.
//
// The single-shot operations (file preview/view/read/tree, selector
// listing, capability query) are plain request/response calls. They accept
// the pseudonymized integer identifiers handed out by earlier searches and
// resolve them back to raw upstream identifiers first; an integer the
// registry has never issued fails with ErrUnknownIdentifier.
package search
