package models

// Counter holds the next-value state for one named sequence, e.g. "videoId".
// The row is created lazily on first allocation and only ever grows.
type Counter struct {
	Name         string
	CurrentValue int64
}
