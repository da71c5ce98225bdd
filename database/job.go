// Package database defines the job journal records shared by the storage
// backends.
package database

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a job is not in the journal.
var ErrNotFound = errors.New("job not found")

// Job records one submission.
type Job struct {
	// Key is the task key of the submitted task or chunk.
	Key   string `json:"key"`
	Class string `json:"class"`
	Name  string `json:"name"`
	// JobID is the backend id, or -1 for a dry run.
	JobID   int64  `json:"job_id"`
	Backend string `json:"backend"`
	Runner  string `json:"runner"`
	// Command is the full submission command line.
	Command []string `json:"command"`
	// Members are the task keys of a chunk's members.
	Members     []string  `json:"members,omitempty"`
	DryRun      bool      `json:"dry_run,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ListJobsRequest selects a page of the journal, newest first.
type ListJobsRequest struct {
	PageSize   int
	PageToken  string
	NamePrefix string
}

// ListJobsResponse is a page of the journal. NextPageToken is empty on the
// last page.
type ListJobsResponse struct {
	Jobs          []*Job
	NextPageToken string
}

// JobStore persists submitted jobs.
type JobStore interface {
	PutJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, key string) (*Job, error)
	GetJobByID(ctx context.Context, backend string, id int64) (*Job, error)
	ListJobs(ctx context.Context, req *ListJobsRequest) (*ListJobsResponse, error)
	Close()
}

// GetPageSize takes in the page size from a request and returns a new page
// size taking into account the minimum, maximum and default values.
func GetPageSize(reqSize int) int {
	defaultPageSize := 256
	maxPageSize := 2048

	pageSize := defaultPageSize
	if reqSize != 0 {
		if reqSize < maxPageSize {
			pageSize = reqSize
		} else if reqSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return pageSize
}
