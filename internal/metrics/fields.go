package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrOutcome  = "outcome"
	AttrResult   = "result"
)

// Buzz enrichment outcomes.
const (
	BuzzOK      = "ok"
	BuzzSkipped = "skipped"
	BuzzFailed  = "failed"
)
