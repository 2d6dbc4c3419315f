package controllers

import (
	"strings"

	"enquiries-backend/middlewares"
	"enquiries-backend/models"

	"github.com/go-playground/validator/v10"
)

// CreateEnquiryDTO is the public submission payload. Empty strings for
// email/phone mean "not provided", not a format error; pointer fields stay
// nil when absent.
type CreateEnquiryDTO struct {
	Mode string `json:"mode" validate:"required,oneof=GENERAL FLEET PARCEL PART_EX STOCK"`
	Type string `json:"type" validate:"required,oneof=QUICK_QUESTION QUOTE FLEET_ENQUIRY PART_EXCHANGE"`

	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,min=6,max=30"`
	Message string `json:"message" validate:"required,max=2000"`

	// Auto-captured context; content passes through unvalidated, only shape.
	PageUrl     string `json:"pageUrl" validate:"omitempty,url"`
	Referrer    string `json:"referrer"`
	UtmSource   string `json:"utmSource"`
	UtmMedium   string `json:"utmMedium"`
	UtmCampaign string `json:"utmCampaign"`
	Device      string `json:"device"`

	// Part exchange details (required for PART_EX / PART_EXCHANGE)
	Reg     string `json:"reg"`
	Mileage *int   `json:"mileage"`

	// Fleet details
	CompanyName   *string `json:"companyName" validate:"omitempty,max=120"`
	FleetSizeBand *string `json:"fleetSizeBand" validate:"omitempty,max=50"`
	Timeframe     *string `json:"timeframe" validate:"omitempty,max=50"`
}

// UpdateEnquiryDTO carries the PATCH body; nil fields are left untouched.
// An empty assignedTo clears the assignment.
type UpdateEnquiryDTO struct {
	Status     *string `json:"status" validate:"omitempty,oneof=NEW CONTACTED CLOSED"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,max=100"`
	Queue      *string `json:"queue" validate:"omitempty,oneof=GENERAL FLEET VALUATIONS"`
}

// FieldErrors runs tag and cross-field validation and returns a
// field-attributed error map; empty means the DTO is acceptable. Call after
// normalizing (trimming) the DTO.
func (d *CreateEnquiryDTO) FieldErrors() map[string]string {
	errs := map[string]string{}

	if err := middlewares.ValidateStruct(d); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["body"] = "invalid payload"
			return errs
		}
		for _, fe := range ve {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = validationMessage(fe)
			}
		}
	}

	// Must have at least one contact method.
	if d.Email == "" && d.Phone == "" {
		errs["email"] = "Please provide an email or a phone number."
	}

	if models.IsPartEx(d.Mode, d.Type) {
		if len(d.Reg) < 2 {
			errs["reg"] = "Vehicle registration is required for part exchange."
		}
		if d.Mileage == nil || *d.Mileage <= 0 {
			errs["mileage"] = "Mileage is required for part exchange."
		}
	}

	if models.IsFleet(d.Mode, d.Type) {
		// Optional fields, but if present they can't be empty strings.
		if d.CompanyName != nil && *d.CompanyName == "" {
			errs["companyName"] = "Company name can't be empty if provided."
		}
		if d.FleetSizeBand != nil && *d.FleetSizeBand == "" {
			errs["fleetSizeBand"] = "Fleet size can't be empty if provided."
		}
		if d.Timeframe != nil && *d.Timeframe == "" {
			errs["timeframe"] = "Timeframe can't be empty if provided."
		}
	}

	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email"
	case "url":
		return "Must be a valid URL."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "Too short."
	case "max":
		return "Too long."
	}
	return "Invalid value."
}

// fieldErrorMap converts validator errors from BindAndValidate-style checks
// into the same field-attributed shape used by FieldErrors.
func fieldErrorMap(err error) map[string]string {
	errs := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = validationMessage(fe)
			}
		}
		return errs
	}
	errs["body"] = "invalid payload"
	return errs
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfBlankPtr(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
