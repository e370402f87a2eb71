// Package dataset loads the input files of a breach event study: per-entity
// daily returns, the market index series, breach disclosure events, and
// industry classifications.
//
// Loaders are deliberately tolerant. Input files come from different research
// data vendors with inconsistent headers, date formats, and sentinel values
// for missing data, so each loader detects its columns, accepts several date
// layouts, and skips records it cannot parse with a warning instead of
// failing the whole file. A file that yields no usable records at all is
// still an error.
//
// Supported formats:
//   - Return series: CSV with entity_id,date,ret columns
//   - Market index: CSV with date plus one or more index return columns
//   - Events: Excel workbook (.xlsx) or CSV with entity and date columns
//   - Industry assignments: CSV with entity_id,date,siccd columns
package dataset
