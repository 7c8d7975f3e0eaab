// Package models defines server-side data models persisted in the database.
package models

import "time"

// Document is a published piece of content (video metadata, tag record).
// It is written only under a transaction; its ID is allocated once from the
// corresponding counter and never changes afterwards.
type Document struct {
	// ID is the numeric identifier minted by the sequence allocator.
	ID int64 `json:"id"`
	// Title and Description are the client-supplied content fields.
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`

	// Bucket and ObjectKey locate the uploaded bytes in object storage.
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"objectKey"`

	// EditDateTime is set to the commit time on every write and is used by
	// the search index for last-write-wins conflict resolution.
	EditDateTime time.Time `json:"editDateTime"`

	// Deleted marks a tombstone replicated to the search index.
	Deleted bool `json:"deleted,omitempty"`
}
