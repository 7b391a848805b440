package publisher

// Publisher fans scanned and classified leads out to downstream consumers.
type Publisher interface {
	// Publish publishes one lead event; source tags where the lead came
	// from (map scan, search scan, classifier).
	Publish(source string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
