package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total de requisições de artigo, por classe de tráfego e ação de despacho.",
		},
		[]string{"class", "action"},
	)
	ContentFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Duração das buscas na fonte de conteúdo, em segundos.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "outcome"},
	)
)

const (
	FetchOutcomeFound    = "found"
	FetchOutcomeNotFound = "not_found"
	FetchOutcomeError    = "error"
	FetchOutcomeTimeout  = "timeout"
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ContentFetchDuration)
}
