package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
)

// Seed loads the demo portfolio into an empty store. It returns true when
// seeding ran and false when the store already held projects.
func Seed(ctx context.Context, db *DB) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count projects: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	repo := NewProjectRepository(db)
	for _, proj := range demoProjects() {
		after, err := json.Marshal(proj)
		if err != nil {
			return false, fmt.Errorf("failed to snapshot %s: %w", proj.ProjectID, err)
		}
		ev := &audit.Event{
			EntityType: audit.EntityProject,
			EntityID:   proj.ProjectID,
			ActorRole:  proj.CreatedBy,
			Action:     audit.ActionCreate,
			Before:     []byte(`{}`),
			After:      after,
			Timestamp:  proj.CreatedAt,
		}
		if err := repo.Create(ctx, proj, ev); err != nil {
			return false, fmt.Errorf("failed to seed %s: %w", proj.ProjectID, err)
		}
	}
	return true, nil
}

func demoProjects() []*project.Project {
	return []*project.Project{
		{
			ProjectID:        "ACD000001",
			Title:            "HV battery contactor weld – MG4 UK",
			Description:      "Intermittent no-start, DTC P0AA1, contactor weld suspected in cold soak.",
			Market:           "UK",
			Region:           "EU",
			Model:            "MG4",
			Platform:         "MSP",
			PartNo:           "12345678",
			VIN:              "LSJWH4090PN100001",
			SymptomCode:      "NS-01",
			Severity:         1,
			Status:           project.StatusContainment,
			Labels:           []string{"HV", "Battery", "Safety", "EV"},
			CreatedBy:        "quality.eu",
			CreatedAt:        time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			BinCoverageRatio: 0.96,
			Sources: []project.SourceLink{
				{SourceID: "S12345", SourceType: project.SourceSSNW},
				{SourceID: "W99887", SourceType: project.SourceWarranty},
			},
		},
		{
			ProjectID:        "ACD000002",
			Title:            "ICE misfire – HS 1.5T APAC",
			Description:      "Customer complaints of rough idle and MIL, usually warm restarts.",
			Market:           "Australia",
			Region:           "APAC",
			Model:            "HS",
			Platform:         "SSA",
			PartNo:           "87654321",
			VIN:              "LSJWH4097PN065724",
			SymptomCode:      "MI-03",
			Severity:         2,
			Status:           project.StatusActive,
			Labels:           []string{"ICE", "Engine", "Drivability"},
			CreatedBy:        "tac.au",
			CreatedAt:        time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
			BinCoverageRatio: 0.84,
			Sources: []project.SourceLink{
				{SourceID: "S22334", SourceType: project.SourceSSNW},
				{SourceID: "W66789", SourceType: project.SourceWarranty},
			},
		},
		{
			ProjectID:        "ACD000003",
			Title:            "Infotainment freeze – ZS EV EU",
			Description:      "Screen unresponsive after 30–40 min drive, logs show watchdog reset.",
			Market:           "Germany",
			Region:           "EU",
			Model:            "ZS EV",
			Platform:         "SSA-EV",
			PartNo:           "33445566",
			VIN:              "LSJW74097PZ173546",
			SymptomCode:      "IF-02",
			Severity:         3,
			Status:           project.StatusCorrective,
			Labels:           []string{"Software", "HMI"},
			CreatedBy:        "quality.eu",
			CreatedAt:        time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC),
			BinCoverageRatio: 0.92,
			Sources: []project.SourceLink{
				{SourceID: "S87342", SourceType: project.SourceSSNW},
			},
		},
		{
			ProjectID:        "ACD000004",
			Title:            "Water leak – ZS ICE roof antenna",
			Description:      "Damp headliner around roof antenna in heavy rain.",
			Market:           "UK",
			Region:           "EU",
			Model:            "ZS ICE",
			Platform:         "SSA",
			PartNo:           "99887766",
			VIN:              "LSJWS4095SZ694837",
			SymptomCode:      "WL-01",
			Severity:         2,
			Status:           project.StatusMonitoring,
			Labels:           []string{"Body", "Water leak"},
			CreatedBy:        "quality.eu",
			CreatedAt:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			BinCoverageRatio: 0.88,
			Sources: []project.SourceLink{
				{SourceID: "S44556", SourceType: project.SourceSSNW},
				{SourceID: "W22446", SourceType: project.SourceWarranty},
			},
		},
		{
			ProjectID:        "ACD000005",
			Title:            "HV charger communication DTC – MG5 UK",
			Description:      "Random charge session aborts, EVCC-OBC CAN timeouts.",
			Market:           "UK",
			Region:           "EU",
			Model:            "MG5",
			Platform:         "SSA-EV",
			PartNo:           "55667788",
			VIN:              "LSJWH4095PN078214",
			SymptomCode:      "CH-04",
			Severity:         1,
			Status:           project.StatusClosed,
			Labels:           []string{"EVCC", "OBC", "Charging"},
			CreatedBy:        "quality.eu",
			CreatedAt:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			BinCoverageRatio: 0.99,
			Sources: []project.SourceLink{
				{SourceID: "S99881", SourceType: project.SourceSSNW},
				{SourceID: "W99001", SourceType: project.SourceWarranty},
				{SourceID: "T4411", SourceType: project.SourceTAC},
			},
		},
	}
}
