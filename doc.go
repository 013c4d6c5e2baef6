// Package dumpsift converts forensic device-dump data sources with
// unknown schemas into normalized call, chat, and contact records, and
// persists them across independent structured, vector, graph, and
// cache backends with partial-failure tolerance.
//
// The System type is the top-level entry point; see the extract,
// ingest, storage, and source packages for the underlying pieces.
package dumpsift
