// Package mock provides in-process embedding doubles for tests.
//
// MockEmbedder returns deterministic unit vectors derived from a hash of the
// text, so equal texts always embed equally and no server is needed. Tests
// that need a specific geometry install their own function:
//
//	embedder := mock.NewMockEmbedder().WithEmbedTextFunc(
//	    func(ctx context.Context, text string) ([]float32, error) {
//	        return vectors[text], nil
//	    })
//	provider := mock.NewMockProviderWithEmbedder(embedder)
//
// CallCount and TextCount report how much embedding work was requested,
// which lets tests observe cache hits.
package mock
