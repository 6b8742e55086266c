// Package fetch retrieves the resources a manifest points at.
//
// A resource is named by a Locator, a URL whose scheme is one of http,
// https or file. The Retriever streams the resource either into a
// destination path or into an in-memory buffer:
//
//	loc, err := fetch.ParseLocator("https://example.com/tool.zip")
//	res, err := r.Fetch(ctx, loc, nil, fetch.ToPath("/work/tool.zip"))
//
// Failures are typed. HTTP errors and connection failures surface as
// *TransportError, a missing file:// source as *NotFoundError. A single
// failed attempt is final; nothing is retried.
package fetch
