package model

import "time"

// FailureKind classifies why an item failed so callers and tests can
// assert on the kind of failure, not just its presence.
type FailureKind int

const (
	// FailureNone marks a successful outcome.
	FailureNone FailureKind = iota

	// FailureHTTP is a non-success status from the CDN.
	FailureHTTP

	// FailureTransport is a connection, timeout or other transport error.
	FailureTransport

	// FailureDecode is a payload that could not be parsed as an image.
	// Sticker fetches recover from this by writing the raw bytes, so it
	// rarely surfaces in a terminal outcome.
	FailureDecode

	// FailureWrite is a local filesystem write error.
	FailureWrite
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureHTTP:
		return "http"
	case FailureTransport:
		return "transport"
	case FailureDecode:
		return "decode"
	case FailureWrite:
		return "write"
	default:
		return "unknown"
	}
}

// FetchOutcome is the terminal result of attempting to fetch one record.
// Exactly one is produced per manifest item, independent of its siblings,
// and it is never mutated after creation.
type FetchOutcome struct {
	ItemName string
	RemoteID string
	Kind     FailureKind
	Reason   string
}

// OK reports whether the item was fetched and written successfully.
func (o FetchOutcome) OK() bool {
	return o.Kind == FailureNone
}

// Succeeded builds a success outcome for the named item.
func Succeeded(name, remoteID string) FetchOutcome {
	return FetchOutcome{ItemName: name, RemoteID: remoteID, Kind: FailureNone}
}

// Failed builds a failure outcome with a classified kind and a reason
// suitable for the error log.
func Failed(name, remoteID string, kind FailureKind, reason string) FetchOutcome {
	return FetchOutcome{ItemName: name, RemoteID: remoteID, Kind: kind, Reason: reason}
}

// Summary aggregates the outcomes of one media kind's batch.
type Summary struct {
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}
