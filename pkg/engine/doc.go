// Package engine is the embeddable cjkfts search engine.
//
// An Engine owns at most one index at a time. The index is created in memory
// or opened from a directory, with a language profile that fixes how title
// and body are segmented:
//
//	e := engine.New(engine.WithLogger(logger))
//	defer e.Close()
//
//	if err := e.InitializeAt(ctx, engine.Korean, "/var/lib/cjkfts"); err != nil {
//	    return err
//	}
//	id, err := e.Add(ctx, "인천국제공항", "대한민국 최대의 국제공항", `{"iata":"ICN"}`)
//	results, err := e.Search(ctx, "인천", 10)
//
// # Field Duality
//
// Every document is indexed twice: by a morphological segmenter (kagome for
// Korean and Japanese, gse for Chinese) and by a 2..3 character n-gram
// tokenizer. Queries search both, so "인천" finds "인천국제공항" even though
// the segmenter keeps the compound whole.
//
// # Queries
//
// Query strings use bleve syntax: +must, -mustnot, "phrases", field:term,
// term~N, prefix*, term^boost. Metadata leaves are filterable as
// metadata.<path>:value, e.g. "+공항 +metadata.iata:ICN".
//
// # Thread Safety
//
// Engine is safe for concurrent use. Mutations are serialised and each one
// commits atomically; searches run concurrently against the last commit.
package engine
