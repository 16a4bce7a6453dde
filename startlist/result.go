package startlist

import "fmt"

type ImportStatus string

const (
	StatusSuccess ImportStatus = "success"
	StatusFailure ImportStatus = "failure"
)

// ImportError carries the error channels of a finished import. CopyError
// may be present on a successful result: a failed interface copy is a
// warning when a usable start list was already in place.
type ImportError struct {
	Message   string `json:"message,omitempty"`
	CopyError string `json:"copyError,omitempty"`
	DBError   string `json:"dbError,omitempty"`
}

// ImportResult is the single outcome shape handed back to the HTTP
// boundary. The boundary reports it with a 200 regardless of status; the
// status field, not the HTTP code, conveys the import outcome.
type ImportResult struct {
	Message string       `json:"message"`
	Status  ImportStatus `json:"status"`
	Error   *ImportError `json:"error,omitempty"`
}

// FailureResult wraps a fatal pre-parse error (unreadable source file)
// into the common result shape. No partial counts exist at that point.
func FailureResult(err error) ImportResult {
	return ImportResult{
		Message: "start list import failed",
		Status:  StatusFailure,
		Error:   &ImportError{Message: err.Error()},
	}
}

// Counts are the per-category totals accumulated over one import run.
type Counts struct {
	TotalInfo     int
	FailedInfo    int
	TotalEntries  int
	FailedEntries int
}

// BuildResult folds the row counters and the copy-step outcome into one
// ImportResult. Per-row insert failures make the import a failure; a
// copy failure alone does not, it rides along as a warning because a
// stale local file is an acceptable substitute for a fresh copy.
func BuildResult(c Counts, copyError string) ImportResult {
	var dbError string
	switch {
	case c.FailedInfo > 0 && c.FailedEntries > 0:
		dbError = fmt.Sprintf("failed to insert %d of %d event info rows and %d of %d event entries",
			c.FailedInfo, c.TotalInfo, c.FailedEntries, c.TotalEntries)
	case c.FailedInfo > 0:
		dbError = fmt.Sprintf("failed to insert %d of %d event info rows", c.FailedInfo, c.TotalInfo)
	case c.FailedEntries > 0:
		dbError = fmt.Sprintf("failed to insert %d of %d event entries", c.FailedEntries, c.TotalEntries)
	}

	switch {
	case dbError != "" && copyError != "":
		return ImportResult{
			Message: "start list import failed",
			Status:  StatusFailure,
			Error:   &ImportError{CopyError: copyError, DBError: dbError},
		}
	case dbError != "":
		return ImportResult{
			Message: "start list import failed",
			Status:  StatusFailure,
			Error:   &ImportError{DBError: dbError},
		}
	case copyError != "":
		return ImportResult{
			Message: fmt.Sprintf("imported %d events and %d entries using the existing start list file", c.TotalInfo, c.TotalEntries),
			Status:  StatusSuccess,
			Error:   &ImportError{CopyError: copyError},
		}
	default:
		return ImportResult{
			Message: fmt.Sprintf("imported %d events and %d entries", c.TotalInfo, c.TotalEntries),
			Status:  StatusSuccess,
		}
	}
}
