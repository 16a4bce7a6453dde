package models

import "time"

// SourceFormat identifies the timing vendor file layout a meet's start
// lists are imported from.
type SourceFormat string

const (
	FormatFinishLynx SourceFormat = "FL"
	FormatOmega      SourceFormat = "OMEGA"
	FormatHytekOmega SourceFormat = "HYTEK OMEGA"
)

// ValidSourceFormat reports whether f is one of the supported import formats.
func ValidSourceFormat(f SourceFormat) bool {
	switch f {
	case FormatFinishLynx, FormatOmega, FormatHytekOmega:
		return true
	}
	return false
}

// Meet is a single competition instance, the root scope for all event
// metadata and entries.
type Meet struct {
	ID              int          `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	Description     *string      `json:"description,omitempty" db:"description"`
	Folder          string       `json:"folder" db:"folder"`
	OutputFormat    *string      `json:"output_format,omitempty" db:"output_format"`
	SourceFormat    SourceFormat `json:"source_format" db:"source_format"`
	InterfaceFolder *string      `json:"interface_folder,omitempty" db:"interface_folder"`
	Editable        bool         `json:"editable" db:"editable"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}
