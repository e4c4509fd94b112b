package project

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/quality-eu/acdtrack/internal/domain/role"
)

// ExportCSV writes the projects matching the filter as CSV, in listing
// order. Export is reserved for Quality and Admin.
func (s *Service) ExportCSV(ctx context.Context, actor role.Role, f Filter, w io.Writer) error {
	if err := role.Require(actor, role.ActionExport); err != nil {
		return err
	}
	projects, err := s.List(ctx, f)
	if err != nil {
		return err
	}
	return WriteCSV(w, projects)
}

// CSVHeader is the exact header row of a portfolio export.
const CSVHeader = "project_id,title,market,model,status,severity,created_at,vin,part_no"

// WriteCSV emits one row per project in the given order. Commas in the
// title are replaced with a single space so rows stay well-formed.
func WriteCSV(w io.Writer, projects []*Project) error {
	if _, err := fmt.Fprintln(w, CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range projects {
		row := strings.Join([]string{
			p.ProjectID,
			strings.ReplaceAll(p.Title, ",", " "),
			p.Market,
			p.Model,
			string(p.Status),
			fmt.Sprintf("%d", p.Severity),
			p.CreatedAt.Format("2006-01-02"),
			p.VIN,
			p.PartNo,
		}, ",")
		if _, err := fmt.Fprintln(w, row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	return nil
}
