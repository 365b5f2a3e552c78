package domain

// Session binds a live connection to the username chosen at join time.
// It exists from a successful join until the connection closes.
// Usernames are not unique across sessions: two connections may join
// under the same name and both count in the presence snapshot.
type Session struct {
	ConnectionID string
	Username     string
}
