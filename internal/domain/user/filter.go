package user

// ListFilter selects a window of users, optionally narrowed by name.
type ListFilter struct {
	Search string // Case-insensitive substring of the name; empty matches everyone
	Offset int64  // Number of matching records to skip
	Limit  int64  // Maximum number of records to return
}
