package domain

import "time"

// SourceStatus tracks one adapter invocation through its lifecycle.
type SourceStatus string

const (
	StatusPending   SourceStatus = "pending"
	StatusRunning   SourceStatus = "running"
	StatusCompleted SourceStatus = "completed"
	StatusFailed    SourceStatus = "failed"
	StatusCancelled SourceStatus = "cancelled"
)

// RunMetadata records what one source run produced. Per-record and
// per-source errors land here instead of propagating; the final document
// carries one entry per scheduled adapter so consumers can judge
// completeness without reading logs.
type RunMetadata struct {
	Source          string       `json:"source"`
	Status          SourceStatus `json:"status"`
	Universities    int          `json:"universities_scraped"`
	Courses         int          `json:"courses_scraped"`
	Errors          []string     `json:"errors"`
	StartedAt       time.Time    `json:"started_at"`
	CompletedAt     time.Time    `json:"completed_at"`
	DurationSeconds float64      `json:"duration_seconds"`
}

func NewRunMetadata(source string) *RunMetadata {
	return &RunMetadata{Source: source, Status: StatusPending, Errors: []string{}}
}

func (m *RunMetadata) Start(now time.Time) {
	m.Status = StatusRunning
	m.StartedAt = now.UTC()
}

func (m *RunMetadata) AddError(msg string) {
	m.Errors = append(m.Errors, msg)
}

func (m *RunMetadata) finish(now time.Time, st SourceStatus) {
	m.Status = st
	m.CompletedAt = now.UTC()
	if !m.StartedAt.IsZero() {
		m.DurationSeconds = m.CompletedAt.Sub(m.StartedAt).Seconds()
	}
}

func (m *RunMetadata) Complete(now time.Time, universities, courses int) {
	m.Universities = universities
	m.Courses = courses
	m.finish(now, StatusCompleted)
}

// Fail marks the source failed while keeping whatever counts were collected
// before the failure. A failed source never fails the run.
func (m *RunMetadata) Fail(now time.Time, err error, universities, courses int) {
	if err != nil {
		m.AddError(err.Error())
	}
	m.Universities = universities
	m.Courses = courses
	m.finish(now, StatusFailed)
}

func (m *RunMetadata) Cancel(now time.Time) {
	m.finish(now, StatusCancelled)
}
