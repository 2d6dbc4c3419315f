package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"enquiries-backend/database"
	"enquiries-backend/middlewares"
	"enquiries-backend/models"
	"enquiries-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateEnquiry handles the public submission form. Validation failures
// return 400 with a field-attributed error map and persist nothing; success
// creates the enquiry and its owned context/part-ex rows atomically.
func CreateEnquiry(c *fiber.Ctx) error {
	var dto CreateEnquiryDTO
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "invalid request body"})
	}
	utils.NormalizeDTO(&dto)
	utils.NormalizePtrDTO(&dto)

	if errs := dto.FieldErrors(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "errors": errs})
	}

	// pageUrl is required on the context row; fall back to the Referer
	// header, then a sentinel.
	pageUrl := dto.PageUrl
	if pageUrl == "" {
		pageUrl = c.Get(fiber.HeaderReferer)
	}
	if pageUrl == "" {
		pageUrl = "unknown"
	}

	now := time.Now()
	priority, queue, slaDueAt := models.DeriveTriage(dto.Mode, dto.Type, now)

	enquiry := models.Enquiry{
		Mode:     dto.Mode,
		Type:     dto.Type,
		Status:   models.StatusNew,
		Priority: priority,
		Queue:    queue,
		SlaDueAt: slaDueAt,

		Name:    dto.Name,
		Email:   nilIfEmpty(dto.Email),
		Phone:   nilIfEmpty(dto.Phone),
		Message: dto.Message,

		CompanyName:   nilIfBlankPtr(dto.CompanyName),
		FleetSizeBand: nilIfBlankPtr(dto.FleetSizeBand),
		Timeframe:     nilIfBlankPtr(dto.Timeframe),

		Context: &models.EnquiryContext{
			PageUrl:     pageUrl,
			Referrer:    nilIfEmpty(dto.Referrer),
			UtmSource:   nilIfEmpty(dto.UtmSource),
			UtmMedium:   nilIfEmpty(dto.UtmMedium),
			UtmCampaign: nilIfEmpty(dto.UtmCampaign),
			Device:      nilIfEmpty(dto.Device),
		},
	}
	if models.IsPartEx(dto.Mode, dto.Type) {
		enquiry.PartEx = &models.EnquiryPartEx{
			Reg:     dto.Reg,
			Mileage: *dto.Mileage,
		}
	}

	tx := database.DB.Begin()
	if err := tx.Create(&enquiry).Error; err != nil {
		tx.Rollback()
		log.Printf("[ENQUIRY] create failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not create enquiry")
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("[ENQUIRY] create commit failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not create enquiry")
	}

	log.Printf("[ENQUIRY] created id=%s mode=%s queue=%s priority=%s", enquiry.Id, enquiry.Mode, enquiry.Queue, enquiry.Priority)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "enquiry": enquiry})
}

// GetEnquiries lists enquiries with optional equality filters, newest first.
func GetEnquiries(c *fiber.Ctx) error {
	q := database.DB.Preload("Context").Preload("PartEx").Order("created_at DESC")
	if mode := c.Query("mode"); mode != "" {
		q = q.Where("mode = ?", mode)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if queue := c.Query("queue"); queue != "" {
		q = q.Where("queue = ?", queue)
	}

	var enquiries []models.Enquiry
	if err := q.Find(&enquiries).Error; err != nil {
		log.Printf("[ENQUIRY] list failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not list enquiries")
	}
	return c.JSON(fiber.Map{"ok": true, "enquiries": enquiries})
}

// GetEnquiry fetches one enquiry with its owned sub-records.
func GetEnquiry(c *fiber.Ctx) error {
	id := c.Params("id")

	var enquiry models.Enquiry
	err := database.DB.Preload("Context").Preload("PartEx").First(&enquiry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"ok": false, "error": "Enquiry not found"})
	}
	if err != nil {
		log.Printf("[ENQUIRY] fetch failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch enquiry")
	}
	return c.JSON(fiber.Map{"ok": true, "enquiry": enquiry})
}

// UpdateEnquiry applies a triage PATCH (status/queue/assignedTo) and writes
// the audit entry in the same per-request transaction, so neither is durable
// without the other. Requires a mutate-capable role before touching data.
func UpdateEnquiry(c *fiber.Ctx) error {
	user := middlewares.SessionUserFromLocals(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
	}
	if !middlewares.CanMutate(user.Role) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"ok": false, "error": "Forbidden"})
	}

	id := c.Params("id")

	var dto UpdateEnquiryDTO
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "invalid request body"})
	}
	utils.NormalizePtrDTO(&dto)
	if err := middlewares.ValidateStruct(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "errors": fieldErrorMap(err)})
	}

	tx := database.FromCtx(c)

	var current models.Enquiry
	err := tx.First(&current, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"ok": false, "error": "Enquiry not found"})
	}
	if err != nil {
		return err
	}

	// firstRespondedAt is stamped once: on the first transition into
	// CONTACTED from a different status.
	now := time.Now()
	statusChanging := dto.Status != nil && *dto.Status != current.Status
	var firstRespondedAt *time.Time
	if statusChanging && *dto.Status == models.StatusContacted && current.FirstRespondedAt == nil {
		firstRespondedAt = &now
	}

	updates := utils.UpdatesFromPtrDTO(&dto, map[string]string{"assignedTo": "assigned_to"})
	if v, ok := updates["assigned_to"]; ok {
		if s, _ := v.(string); s == "" {
			updates["assigned_to"] = nil
		}
	}
	if firstRespondedAt != nil {
		updates["first_responded_at"] = *firstRespondedAt
	}

	if len(updates) > 0 {
		if err := tx.Model(&models.Enquiry{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
	}

	var updated models.Enquiry
	if err := tx.Preload("Context").Preload("PartEx").First(&updated, "id = ?", id).Error; err != nil {
		return err
	}

	entry := models.AuditLog{
		ActorEmail: user.Email,
		ActorRole:  user.Role,
		Action:     "enquiry.update",
		EntityType: "enquiry",
		EntityId:   id,
		Before:     triageSnapshot(current),
		After:      triageSnapshot(updated),
		IP:         clientIP(c),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	}
	if err := tx.Create(&entry).Error; err != nil {
		// Returning the error rolls the whole transaction back: the audit log
		// must never be missing for a durable mutation.
		return err
	}

	log.Printf("[ENQUIRY] updated id=%s by=%s role=%s", id, user.Email, user.Role)
	return c.JSON(fiber.Map{"ok": true, "enquiry": updated})
}

// triageSnapshot serializes the fields eligible for change on a PATCH.
func triageSnapshot(e models.Enquiry) datatypes.JSON {
	b, _ := json.Marshal(map[string]any{
		"status":           e.Status,
		"queue":            e.Queue,
		"assignedTo":       e.AssignedTo,
		"firstRespondedAt": e.FirstRespondedAt,
	})
	return datatypes.JSON(b)
}

// clientIP prefers the first hop of X-Forwarded-For, set by the proxy in
// front of this service.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.IP()
}
