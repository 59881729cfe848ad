// Package gatherly implements the request dispatch, validation, and
// authentication core of the gatherly social-event application: typed
// query/command messages routed through a startup-built dispatch table,
// ozzo-validation payload rules enforced before any handler runs, and
// JWT-based identity issuance backed by a bun user store.
//
// The client package holds the session store tier that mirrors server
// identity state, and cmd/server wires the HTTP surface.
package gatherly
