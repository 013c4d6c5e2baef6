// Package source abstracts the relational data sources embedded in
// forensic extraction archives. A Source exposes a table catalog and
// projection queries over tables whose schemas are unknown ahead of
// time; the concrete format lives in subpackages (source/sqlite).
package source
