package driven

import "time"

// ResultOK labels a successful operation.
const ResultOK = "ok"

// Metrics records pipeline outcomes.
// Result labels are "ok" or a short error class such as "invalid_input".
type Metrics interface {
	// ObserveIngest records one ingestion and the number of chunks it produced.
	ObserveIngest(result string, chunks int)

	// ObserveRetrieval records how many chunks a retrieval returned.
	ObserveRetrieval(retrieved int)

	// ObserveTailor records one tailoring request and its generation latency.
	ObserveTailor(result string, generation time.Duration)
}
