package models

import "time"

// Upload session statuses. A session is created pending, becomes finalized
// when its metadata document commits, or expired once its deadline passes.
// There is no transition out of finalized or expired.
const (
	UploadStatusPending   = "pending"
	UploadStatusFinalized = "finalized"
	UploadStatusExpired   = "expired"
)

// UploadSession is a time-boxed reservation permitting a client to write
// bytes directly to object storage before the metadata document is committed.
type UploadSession struct {
	// ID is the uploadId handed to the client.
	ID string
	// Bucket and ObjectKey are reserved for the client's direct upload.
	Bucket    string
	ObjectKey string
	// Status is one of the UploadStatus* values.
	Status string
	// DocumentID links a finalized session to its published document.
	DocumentID int64

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session deadline has passed at the given time.
func (s *UploadSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
