package observability

// Metric name prefixes
const (
	MetricPrefix = "tipster"
)

// Metric names
const (
	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"

	// Prediction metrics
	PredictionsAcceptedTotal = MetricPrefix + ".predictions.accepted_total"
	PredictionsRejectedTotal = MetricPrefix + ".predictions.rejected_total"

	// Match metrics
	MatchesLockedTotal = MetricPrefix + ".matches.locked_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelEventType = "event_type"
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
	LabelReason    = "reason"
)
