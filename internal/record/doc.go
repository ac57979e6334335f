// Package record defines the canonical observation schema and its
// normalization rules. A raw field capture arrives as a loosely shaped string
// map; Normalize converts it into the closed Record struct where every field
// is either a real value or an explicit unknown sentinel. Normalization is
// total and idempotent, so records can be re-normalized safely at any boundary.
package record
