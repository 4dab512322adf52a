// Package corpus loads scraped page records from a directory into an ordered
// collection of core.Document values.
//
// Each *.json file in the directory holds one page. Files are read in name
// order so the resulting collection, and therefore the embedding index rows
// built from it, is the same on every load. A file that cannot be parsed or
// that lacks a url is logged and skipped; the rest of the corpus still loads.
//
//	docs, err := corpus.Load(ctx, "scraped_data")
package corpus
