// Package spdx reads SPDX tag-value documents into per-file records.
//
// Ingestion happens in two stages, each of which consumes its whole input
// before the next one starts:
//
//  1. [Reader] turns physical lines into ordered tag/value [Pair]s, joining
//     multi-line <text>...</text> values.
//  2. [Parser] groups pairs into one [Record] per FileName entry, capturing
//     the concluded license and file checksums.
//
// Both stages are state machines with a terminal error state. A malformed
// line or checksum rejects the whole document; neither stage ever hands out
// a partial result after an error.
//
// The package knows nothing about storage. Records are normalized, validated
// and written by the importer in package core.
package spdx
