package domain

import "context"

// RawKind tags the shape a RawRecord carries before normalization.
type RawKind string

const (
	KindUniversity   RawKind = "university"
	KindCourse       RawKind = "course"
	KindCostOfLiving RawKind = "cost_of_living"
)

// RawRecord is the untyped, source-shaped output of one parsed element.
// It lives only between an adapter and the normalizer.
type RawRecord struct {
	Source string
	Kind   RawKind
	URL    string
	Fields map[string]any
}

// SourceAdapter translates one external source into RawRecords. Extract
// never returns an error: per-record and per-source failures are absorbed
// into the returned RunMetadata so a broken source cannot fail the run.
type SourceAdapter interface {
	Name() string
	Extract(ctx context.Context) ([]RawRecord, *RunMetadata)
}

// Fetcher is the static-HTML path of the transport layer.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer is the dynamic-rendering path: fetch through a headless browser
// so client-side script runs before parsing. Close must release the browser
// on every exit path.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Close()
}

// PageCache stores fetched bodies so reruns within the TTL do not re-hit
// the sources. Implementations must be safe to skip (nil cache = no-op).
type PageCache interface {
	GetPage(ctx context.Context, url string) ([]byte, bool, error)
	SetPage(ctx context.Context, url string, body []byte) error
}

// SnapshotRepository is the optional relational sink mirroring the
// canonical entities.
type SnapshotRepository interface {
	UpsertUniversity(ctx context.Context, u University) error
	UpsertCourse(ctx context.Context, c Course) error
	SaveCountryProfile(ctx context.Context, p CountryProfile) error
	LogRun(ctx context.Context, m RunMetadata) error
}
