package weather

import (
	"context"
)

// Fetcher retrieves the raw observation payload for a station.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, station Station) ([]byte, error)
}

// StationSource supplies the currently configured station. It may change
// between pipeline runs.
type StationSource interface {
	Station() Station
}

// Notifier receives change events. Notify must not block the pipeline.
type Notifier interface {
	Notify(ev ChangeEvent)
}

// PollResult labels the outcome of one pipeline run.
type PollResult string

const (
	PollChanged    PollResult = "changed"
	PollUnchanged  PollResult = "unchanged"
	PollNoData     PollResult = "no_data"
	PollStale      PollResult = "stale"
	PollFetchError PollResult = "fetch_error"
	PollParseError PollResult = "parse_error"
)

// Recorder observes pipeline outcomes, e.g. for metrics.
type Recorder interface {
	ObservePoll(result PollResult)
	ObserveAnnouncement(cat Category)
}
