// Package api defines transport-friendly views of roster and resolution
// state. Commands render these DTOs as tables or JSON; nothing in here
// reaches back into storage.
package api
