package models

// Export is a monthly export uploaded by the server.
type Export struct {
	Key   string
	URL   string
	Count int
}
