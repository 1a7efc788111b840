package repository

// CancelFunc stops a live watch. Every watch returned by a repository
// must be cancelled exactly once; the snapshot channel is closed after
// cancellation (or after a watch error).
type CancelFunc func()
