package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/pagesift/config"
	"github.com/gaurav-prasanna/pagesift/core"
	"github.com/gaurav-prasanna/pagesift/core/backend"
	"github.com/gaurav-prasanna/pagesift/core/extract"
	"github.com/gaurav-prasanna/pagesift/core/fetch"
	"github.com/gaurav-prasanna/pagesift/core/normalize"
	"github.com/gaurav-prasanna/pagesift/core/pipeline"
	"github.com/gaurav-prasanna/pagesift/store"
)

func newFetcher(cfg config.FetchConfig) (core.Fetcher, error) {
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}

	switch cfg.Strategy {
	case "", "http":
		return fetch.New(opts...), nil
	case "colly":
		return fetch.NewColly(opts...), nil
	case "remote":
		return fetch.NewRemote(cfg.RemoteEndpoint, cfg.RemoteToken, opts...), nil
	default:
		return nil, fmt.Errorf("unknown fetch strategy %q", cfg.Strategy)
	}
}

func newExtractor(cfg config.ExtractConfig, log zerolog.Logger) (core.Extractor, error) {
	switch cfg.Strategy {
	case "", "body":
		return extract.New(), nil
	case "readability":
		return extract.NewReadability(log), nil
	default:
		return nil, fmt.Errorf("unknown extract strategy %q", cfg.Strategy)
	}
}

func newBackend(cfg config.BackendConfig, log zerolog.Logger) (core.Backend, error) {
	switch cfg.Provider {
	case "", "ollama":
		return backend.NewOllama(cfg.URL, cfg.Model, cfg.Timeout, log), nil
	case "openai":
		return backend.NewOpenAI(cfg.APIKey, cfg.URL, cfg.Model, log), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.Provider)
	}
}

// buildPipeline wires every stage from configuration. history may be nil.
func buildPipeline(cfg *config.Config, history core.HistoryStore, log zerolog.Logger) (*pipeline.Pipeline, error) {
	fetcher, err := newFetcher(cfg.Fetch)
	if err != nil {
		return nil, err
	}
	extractor, err := newExtractor(cfg.Extract, log)
	if err != nil {
		return nil, err
	}
	be, err := newBackend(cfg.Backend, log)
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Fetcher:        fetcher,
		Extractor:      extractor,
		Normalizer:     normalize.New(),
		Backend:        be,
		History:        history,
		MaxChunkLength: cfg.Chunk.MaxLength,
		Concurrency:    cfg.Parse.Concurrency,
		Separator:      cfg.Parse.Separator,
		Log:            log,
	}, nil
}

// openHistory opens the history store when needed is true. The returned
// close func is always safe to call.
func openHistory(cfg config.StoreConfig, needed bool) (core.HistoryStore, func(), error) {
	if !needed {
		return nil, func() {}, nil
	}
	st, err := store.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, func() {}, err
	}
	return st, func() { _ = st.Close() }, nil
}
