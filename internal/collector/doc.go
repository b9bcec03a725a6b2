// Package collector orchestrates the collection stage: it runs every
// registered platform collector with bounded concurrency and aggregates
// the results into a model.RawDataset.
package collector
