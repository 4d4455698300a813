package ticket

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	RunTokensIn        prometheus.Histogram
	RunTokensOut       prometheus.Histogram
	LLMCallsTotal      *prometheus.CounterVec
	LLMDuration        *prometheus.HistogramVec
	LLMTokensIn        prometheus.Counter
	LLMTokensOut       prometheus.Counter
	ParseFailuresTotal *prometheus.CounterVec
	LookupsTotal       *prometheus.CounterVec
	LookupDuration     prometheus.Histogram
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_triage_requests_total",
			Help: "Total triage requests by outcome.",
		}, []string{"outcome"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_triage_runs_total",
			Help: "Total completed triage runs by resolved issue type and whether the order lookup ran.",
		}, []string{"issue_type", "tool_called"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "helpdesk_triage_run_duration_seconds",
			Help:    "Duration of triage runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 0.25s .. ~128s
		}),
		RunTokensIn: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "helpdesk_triage_run_tokens_input",
			Help:    "Input tokens consumed per triage run.",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10), // 50 .. ~25600
		}),
		RunTokensOut: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "helpdesk_triage_run_tokens_output",
			Help:    "Output tokens consumed per triage run.",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10), // 50 .. ~25600
		}),
		LLMCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_llm_calls_total",
			Help: "Total reasoning service calls by stage.",
		}, []string{"stage"}),
		LLMDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_llm_call_duration_seconds",
			Help:    "Duration of individual reasoning service calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}, []string{"stage"}),
		LLMTokensIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_llm_tokens_input_total",
			Help: "Total reasoning service input tokens consumed.",
		}),
		LLMTokensOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_llm_tokens_output_total",
			Help: "Total reasoning service output tokens consumed.",
		}),
		ParseFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_model_parse_failures_total",
			Help: "Model responses that were not parseable as JSON, by stage.",
		}, []string{"stage"}),
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_order_lookups_total",
			Help: "Order lookups performed during triage, by result.",
		}, []string{"result"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "helpdesk_order_lookup_duration_seconds",
			Help:    "Duration of order lookups in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RunsTotal,
		m.RunDuration,
		m.RunTokensIn,
		m.RunTokensOut,
		m.LLMCallsTotal,
		m.LLMDuration,
		m.LLMTokensIn,
		m.LLMTokensOut,
		m.ParseFailuresTotal,
		m.LookupsTotal,
		m.LookupDuration,
	)

	return m
}

// Hooks returns an EngineHooks that increments the corresponding metrics.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnLLMCall: func(stage string, inputTokens, outputTokens int, duration float64) {
			m.LLMCallsTotal.WithLabelValues(stage).Inc()
			m.LLMDuration.WithLabelValues(stage).Observe(duration)
			m.LLMTokensIn.Add(float64(inputTokens))
			m.LLMTokensOut.Add(float64(outputTokens))
		},
		OnParseFailure: func(stage string) {
			m.ParseFailuresTotal.WithLabelValues(stage).Inc()
		},
		OnLookup: func(found bool, duration float64) {
			result := "found"
			if !found {
				result = "not_found"
			}
			m.LookupsTotal.WithLabelValues(result).Inc()
			m.LookupDuration.Observe(duration)
		},
		OnComplete: func(e *CompleteEvent) {
			m.RunsTotal.WithLabelValues(string(e.IssueType), boolLabel(e.ToolCalled)).Inc()
			m.RunDuration.Observe(e.Duration)
			m.RunTokensIn.Observe(float64(e.TokensIn))
			m.RunTokensOut.Observe(float64(e.TokensOut))
		},
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
