package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrDuplicate              = errors.New("resource already exists")
	ErrJobPostHasApplications = errors.New("This job post has existing applications. Create a new version to make changes.")
	ErrJobPostNotAvailable    = errors.New("job post is not available")
	ErrForeignKeyConstraint   = errors.New("foreign key constraint violation")
	ErrCandidateLimitReached  = errors.New("job post has reached its maximum number of candidates")
)
