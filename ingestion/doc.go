// Package ingestion builds the embedding index from loaded documents.
//
// Builder splits document contents into batches and embeds them concurrently
// on a bounded worker pool, retrying transient embedding failures with
// exponential backoff. Vectors are written back into their document's row so
// the index is aligned with the document collection whatever order batches
// finish in. An optional storage.VectorCache lets rebuilds reuse the vectors
// of passages that did not change.
package ingestion
