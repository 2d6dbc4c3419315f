package controllers

import (
	"log"
	"time"

	"enquiries-backend/database"
	"enquiries-backend/models"
	"enquiries-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// triageRowCap bounds the triage board; there is no pagination.
const triageRowCap = 200

// TriageRow is one line of the admin triage board: the enquiry's triage
// fields plus the derived SLA figures.
type TriageRow struct {
	Id               string     `json:"id"`
	Mode             string     `json:"mode"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	Queue            string     `json:"queue"`
	AssignedTo       *string    `json:"assignedTo"`
	CreatedAt        time.Time  `json:"createdAt"`
	SlaDueAt         time.Time  `json:"slaDueAt"`
	FirstRespondedAt *time.Time `json:"firstRespondedAt"`

	// SlaBreached is true when the deadline has passed and the enquiry is
	// still untouched (status NEW).
	SlaBreached         bool    `json:"slaBreached"`
	SlaMinutesRemaining float64 `json:"slaMinutesRemaining"`
}

// GetTriage returns the latest enquiries with SLA-breach computation.
func GetTriage(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), triageRowCap)
	if limit == 0 || limit > triageRowCap {
		limit = triageRowCap
	}

	var enquiries []models.Enquiry
	if err := database.DB.Order("created_at DESC").Limit(limit).Find(&enquiries).Error; err != nil {
		log.Printf("[TRIAGE] query failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch triage data")
	}

	now := time.Now()
	rows := make([]TriageRow, len(enquiries))
	for i, e := range enquiries {
		rows[i] = TriageRow{
			Id:               e.Id,
			Mode:             e.Mode,
			Type:             e.Type,
			Status:           e.Status,
			Priority:         e.Priority,
			Queue:            e.Queue,
			AssignedTo:       e.AssignedTo,
			CreatedAt:        e.CreatedAt,
			SlaDueAt:         e.SlaDueAt,
			FirstRespondedAt: e.FirstRespondedAt,

			SlaBreached:         e.SlaDueAt.Before(now) && e.Status == models.StatusNew,
			SlaMinutesRemaining: utils.Round2(e.SlaDueAt.Sub(now).Minutes()),
		}
	}
	return c.JSON(fiber.Map{"ok": true, "rows": rows})
}
