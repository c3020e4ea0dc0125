package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gaurav-prasanna/pagesift/core"
)

type metrics struct {
	scrapes        *prometheus.CounterVec
	parses         *prometheus.CounterVec
	chunks         prometheus.Counter
	scrapeDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagesift",
			Name:      "scrapes_total",
			Help:      "Scrape requests by outcome (ok or error kind).",
		}, []string{"outcome"}),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagesift",
			Name:      "parses_total",
			Help:      "Parse requests by outcome (ok or error kind).",
		}, []string{"outcome"}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pagesift",
			Name:      "parsed_chunks_total",
			Help:      "Chunks sent to the backend.",
		}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pagesift",
			Name:      "scrape_duration_seconds",
			Help:      "Time to fetch, extract, and normalize one page.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.scrapes, m.parses, m.chunks, m.scrapeDuration)
	return m
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(core.KindOf(err))
}
