package checker

import "github.com/lukemcguire/deadlinks/result"

// FileChecked reports that one file has been checked. Events arrive in
// discovery order.
type FileChecked struct {
	Path    string         // File that was checked
	Entries []result.Entry // Its results, in encounter order
	Done    int            // Files checked so far, including this one
	Total   int            // Files discovered for the run
	Links   int            // Links evaluated so far
	Dead    int            // Dead links so far
}
