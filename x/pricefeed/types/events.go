package types

// Pricefeed module event type constants
const (
	// EventTypeAverageUpdated defines the event type emitted when an accepted
	// submission has been folded into the aggregation window
	EventTypeAverageUpdated = "average_updated"
)

// Event attribute keys
const (
	AttributeKeyPrice       = "price"
	AttributeKeyAverage     = "average"
	AttributeKeyWindowSize  = "window_size"
	AttributeKeySubmitter   = "submitter"
	AttributeKeyBlockNumber = "block_number"
)
