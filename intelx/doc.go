// Package intelx is the HTTP client for the Intelligence X API.
//
// The API is asynchronous: a search is submitted to obtain a job handle,
// results are collected by polling that handle, and a running job can be
// terminated early. Four search families share this shape (intelligent
// search, phonebook, identity, account export); they differ only in
// endpoints and parameters. A set of single-shot endpoints (file preview,
// view, read, tree, selector listing, capability info) answer in one
// request/response.
//
// Every call passes through a rategate.Gate keyed by service root before
// the request goes out, and attaches the static API key. Parameter names
// on the wire are bit-exact with the upstream contract; callers should
// treat the request/response types here as the source of truth for them.
package intelx
