package result

import "time"

// Record is one result entry attributed to the file it was found in.
type Record struct {
	File     string        `json:"file"`
	URL      string        `json:"url"`
	Status   string        `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	Category ErrorCategory `json:"error_type,omitempty"`
}

// Records flattens r into records attributed to file.
func Records(file string, r *Results) []Record {
	records := make([]Record, 0, r.Len())
	for link, status := range r.All() {
		records = append(records, Record{
			File:     file,
			URL:      link.String(),
			Status:   status.Kind().String(),
			Reason:   status.Reason(),
			Category: status.Category(),
		})
	}
	return records
}

// Stats contains aggregate statistics for a run.
type Stats struct {
	Files    int           // Files searched
	Checked  int           // Links evaluated, including cached and ignored
	Dead     int           // Links with a Dead status
	Warnings int           // Links with a Warn status
	Duration time.Duration // Wall time of the run
}

// Report is the complete output of a check run.
type Report struct {
	Results *Results // Run-wide results in discovery order
	Records []Record // The same entries attributed to their files
	Stats   Stats
}

// DeadLinks returns the number of Dead entries in the run.
func (r *Report) DeadLinks() int {
	if r == nil || r.Results == nil {
		return 0
	}
	return r.Results.CountWith(KindDead)
}
