package domain

// Persisted keys.
const (
	KeyLocationData = "LOCATION_DATA"
	KeyHomeLocation = "HOME_LOCATION"
	KeyWorkLocation = "WORK_LOCATION"
	KeyParticipate  = "PARTICIPATE"
)

// LocationSample is one point of the recorded trail. Time is UTC epoch millis.
type LocationSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Time      int64   `json:"time"`
}

// RawLocation is an event as delivered by the location provider. Time is
// advisory; the trail always stamps its own UTC time.
type RawLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Time      int64   `json:"time,omitempty"`
}

// ExportLocation is the payload handed to the upload collaborator.
type ExportLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type TrailStats struct {
	FirstPoint *LocationSample `json:"firstPoint"`
	LastPoint  *LocationSample `json:"lastPoint"`
	PointCount int             `json:"pointCount"`
}

type LoadStatus string

const (
	LoadOK          LoadStatus = "ok"
	LoadMissing     LoadStatus = "missing"
	LoadReadFailed  LoadStatus = "read_failed"
	LoadParseFailed LoadStatus = "parse_failed"
)

// TrailLoad is the result of reading the persisted trail. Samples is never
// nil; on any failure it is empty and Err says why.
type TrailLoad struct {
	Samples []LocationSample
	Status  LoadStatus
	Err     error
}

type Decision string

const (
	DecisionRecorded   Decision = "recorded"
	DecisionSuppressed Decision = "suppressed"
)
