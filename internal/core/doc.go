// Package core holds the import pipeline and the service the HTTP layer
// calls into.
//
// A document import runs in phases:
//
//  1. reading: the body is BOM-stripped, UTF-8 sanitized, size-limited and
//     fingerprinted with xxhash while spdx.ReadAll turns lines into pairs
//  2. parsing: spdx.ParseAll groups pairs into file records
//  3. validating: [Importer.CheckRecords] applies license conversions and
//     optional path prefix stripping, then collects duplicate paths and
//     licenses missing from the catalog
//  4. inserting: [Importer.ImportRecords] writes every row in one bulk copy
//
// A failure in any phase leaves the scan untouched. [Service.ImportDocument]
// bounds parallel imports with [ImportLimiter] and allows only one import per
// scan at a time.
//
// Technical errors are mapped to user-facing messages with [MapError].
package core
