// Package session contains the state actor and its message contracts.
//
// Allowed here:
// - the command/notification protocol between actor and presentation
// - the inbound queue and the actor's single-consumer receive loop
// - catalog invariant ownership (unique default names, selection cursor)
//
// Not allowed here:
// - rendering or key handling (internal/tui)
// - SQL (internal/catalog)
package session
