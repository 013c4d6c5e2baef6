// Package extract implements schema-agnostic extraction of normalized
// records from forensic data sources with unknown, tool-specific
// schemas.
//
// Tables and columns are classified by heuristic keyword signatures
// rather than fixed schemas; the first matching column in a table's
// declared order always wins so extraction stays deterministic and
// auditable. Heterogeneous timestamp encodings are normalized through
// a total conversion that never fails.
//
// One malformed table never aborts a pass: per-table failures become
// typed skip results on the Orchestrator's output. Only a
// catalog-level source failure is fatal.
package extract
