// Package playground implements the submission replay harness shared by the
// example pages.
//
// A request flows through Playground.Middleware, which
//
//   - parses the form configuration from the query string (initialReport,
//     noValidate, fallbackNative) and rejects malformed input with 400,
//   - echoes posted fields minus the reserved form identifier field,
//   - resolves the browser session and its ReplayStore, starting a session
//     only when a posted form needs somewhere to be stored, and
//   - exposes a per-request Harness to the page through the request context.
//
// Submissions that arrive with a request are applied to the session store
// only after the page handler has returned without a server error. While the
// page renders, Harness.Lookup sees the arriving submission as an overlay, so
// the store never changes in the middle of a render.
//
// The store compares submissions by identity (the ID assigned by Echo), not
// by value, so delivering the same echoed submission twice is a no-op.
package playground
