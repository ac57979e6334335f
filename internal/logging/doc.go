// Package logging wraps log/slog with the handlers and attribute helpers used
// across beacon. Console output is a compact key=value line format; JSON output
// is for log shipping. Context-derived fields (resolution id, individual id,
// stage) are attached through WithContext so engine code never threads
// identifiers into every call site by hand.
package logging
