package project

import (
	"errors"
	"time"
)

// SourceType classifies the origin of a complaint record.
type SourceType string

const (
	SourceSSNW     SourceType = "SSNW"
	SourceWarranty SourceType = "Warranty"
	SourceTAC      SourceType = "TAC"
)

// ErrInvalidSourceType indicates a source type outside the known set.
var ErrInvalidSourceType = errors.New("invalid source type")

// ParseSourceType validates a source type string against the closed set.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceSSNW, SourceWarranty, SourceTAC:
		return SourceType(s), nil
	}
	return "", ErrInvalidSourceType
}

// SourceLink binds an external complaint record to its owning project.
// The composite (SourceID, SourceType) is unique across the whole store.
type SourceLink struct {
	SourceID   string     `json:"source_id"`
	SourceType SourceType `json:"source_type"`
}

// Project is a tracked quality/warranty case record.
type Project struct {
	ProjectID        string       `json:"project_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Market           string       `json:"market"`
	Region           string       `json:"region,omitempty"`
	Model            string       `json:"model"`
	Platform         string       `json:"platform,omitempty"`
	PartNo           string       `json:"part_no,omitempty"`
	VIN              string       `json:"vin,omitempty"`
	SymptomCode      string       `json:"symptom_code,omitempty"`
	Severity         int          `json:"severity"`
	Status           Status       `json:"status"`
	Labels           []string     `json:"labels"`
	CreatedBy        string       `json:"created_by"`
	CreatedAt        time.Time    `json:"created_at"`
	AgeDays          int          `json:"age_days"`
	BinCoverageRatio float64      `json:"bin_coverage_ratio"`
	Sources          []SourceLink `json:"sources"`
}

// HasSource reports whether the project already carries the link.
func (p *Project) HasSource(link SourceLink) bool {
	for _, s := range p.Sources {
		if s == link {
			return true
		}
	}
	return false
}

// ComputeAgeDays derives the project age from its creation date. The value
// is recomputed on every read, never stored authoritatively. Age counts
// calendar days, so a project created late yesterday is already one day
// old this morning.
func ComputeAgeDays(createdAt, now time.Time) int {
	days := int(truncateToDay(now).Sub(truncateToDay(createdAt)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Clone returns a deep copy, used for audit snapshots so later mutations
// cannot retroactively alter a recorded state.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Labels = append([]string(nil), p.Labels...)
	cp.Sources = append([]SourceLink(nil), p.Sources...)
	return &cp
}
