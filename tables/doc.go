// Package tables turns body tables into form schemas.
//
// # Borders
//
// [ResolveCellBorders] is a pure function: it picks each edge of a cell from
// the table's outer borders or its inside borders, depending on where the
// cell sits, and then applies the cell's own overrides. An explicit "none"
// edge is kept distinct from an unspecified one.
//
// # Extraction
//
// [Extractor] builds a [model.TableSchema] per body table. The header row
// defines the column schema; every cell keeps its span, merge state,
// shading, alignment, text direction, borders and run list.
//
//	ex := tables.NewExtractor(pkg, imageIndex)
//	schemas := ex.ExtractAll(pkg.Body)
//
// # Splitting
//
// [Split] partitions a schema at rows holding page breaks. Each part is an
// independent schema named <name>_part_<n> whose rows and cells are
// re-indexed from zero.
package tables
