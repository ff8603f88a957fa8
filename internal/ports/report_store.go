package ports

import "github.com/hrntsm/dmkit/internal/domain"

// ReportStore persists inspection reports and returns an id for each.
type ReportStore interface {
	SaveReport(r domain.InspectionReport) (id string, err error)
}
