package entity

// ErrorKind classifies a partial failure recorded during a run.
type ErrorKind string

const (
	// ErrorTransport covers network and timeout failures after retries
	// were exhausted.
	ErrorTransport ErrorKind = "transport"
	// ErrorProtocol covers explicit JSON-RPC error envelopes; these are
	// not retried.
	ErrorProtocol ErrorKind = "protocol"
	// ErrorSnapshot covers a lending snapshot file that was present but
	// could not be parsed.
	ErrorSnapshot ErrorKind = "snapshot"
)

// FetchError records a failure scoped to a single address or coin. Failures
// never propagate past their owning unit; they are attached to the account
// they belong to and the run continues.
type FetchError struct {
	Address  string    `json:"address"`
	CoinType string    `json:"coin_type,omitempty"`
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
}
