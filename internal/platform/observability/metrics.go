package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MentionsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_mentions_received_total",
		Help: "The total number of mentions received from the filtered stream",
	})

	MentionsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_mentions_skipped_total",
		Help: "The total number of mentions skipped before processing",
	}, []string{"reason"})

	MentionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_mentions_processed_total",
		Help: "The total number of mentions processed end to end",
	}, []string{"status"})

	RepliesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_replies_posted_total",
		Help: "The total number of reply posts attempted",
	}, []string{"status"})

	StreamReconnects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_stream_reconnects_total",
		Help: "The total number of filtered stream reconnect attempts",
	}, []string{"reason"})

	StreamEventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_stream_events_dropped_total",
		Help: "The total number of stream payloads dropped before dispatch",
	}, []string{"reason"})

	ConversationFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bot_conversation_fetch_duration_seconds",
		Help:    "Duration of conversation thread reconstruction",
		Buckets: prometheus.DefBuckets,
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMToolIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bot_llm_tool_iterations",
		Help:    "Number of tool-calling rounds per mention",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	})

	ToolExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_tool_executions_total",
		Help: "The total number of plugin tool executions",
	}, []string{"tool", "status"})

	ReplyGuardSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_reply_guard_size",
		Help: "Current number of tweet IDs tracked by the duplicate reply guard",
	})

	LinkStoreRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_link_store_requests_total",
		Help: "The total number of link store publish attempts",
	}, []string{"status"})
)
