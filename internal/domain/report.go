package domain

import "time"

// InspectionReport is a saved snapshot of the metadata read from one file.
type InspectionReport struct {
	Source      string        `json:"source"`
	InspectedAt time.Time     `json:"inspected_at"`
	Objects     []MetadataRow `json:"objects"`
}
