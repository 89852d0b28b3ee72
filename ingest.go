package hrchat

import (
	"context"

	"github.com/poiesic/hrchat/chunker"
	"github.com/poiesic/hrchat/ingestion"
	"github.com/poiesic/hrchat/loader"
)

// Ingest rebuilds the index at indexPath from the HTML pages below
// corpusDir. The previous index is replaced only when ingestion succeeds.
func Ingest(ctx context.Context, corpusDir, indexPath string, opts ...Option) (*ingestion.Report, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	splitter, err := chunker.New(o.chunkSize, o.chunkOverlap)
	if err != nil {
		return nil, err
	}

	provider, owned, err := o.resolveProvider()
	if err != nil {
		return nil, err
	}
	if owned {
		defer provider.Close()
	}

	loaderOpts := []loader.Option{loader.WithLogger(o.logger)}
	if len(o.extensions) > 0 {
		loaderOpts = append(loaderOpts, loader.WithExtensions(o.extensions...))
	}
	docs := loader.NewDirectoryLoader(corpusDir, loaderOpts...)

	pipelineOpts := []ingestion.Option{
		ingestion.WithEmbeddingModel(provider.EmbeddingModel()),
		ingestion.WithLogger(o.logger),
	}
	if o.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(o.poolSize))
	}
	batchSize := ingestion.DefaultBatchSize
	if o.batchSize > 0 {
		batchSize = o.batchSize
		pipelineOpts = append(pipelineOpts, ingestion.WithBatchSize(batchSize))
	}
	if o.progress != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithProgress(o.progress, batchSize))
	}

	pipeline, err := ingestion.NewPipeline(docs, splitter, provider.Embedder(), o.store, pipelineOpts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	return pipeline.Run(ctx, indexPath)
}
