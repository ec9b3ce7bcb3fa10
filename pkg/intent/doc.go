// Package intent converts natural-language change requests into ordered,
// validated modification intents.
//
// Free-text understanding is delegated to a Parser collaborator (an external
// NL service, or the built-in keyword heuristic when none is configured). The
// Resolver owns what happens after parsing: schema validation of every intent,
// all-or-nothing failure on malformed entries, and sequence stamping.
//
// Clause order is a semantic contract. The sequence number attached to each
// intent is the tie-break for conflicting field writes during merging, so the
// Resolver preserves the order returned by the Parser exactly.
package intent
