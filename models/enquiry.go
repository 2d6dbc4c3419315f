package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enum values for the enquiry classifiers. These match the public form
// contract; keep them in sync with the validation layer.
const (
	ModeGeneral = "GENERAL"
	ModeFleet   = "FLEET"
	ModeParcel  = "PARCEL"
	ModePartEx  = "PART_EX"
	ModeStock   = "STOCK"

	TypeQuickQuestion = "QUICK_QUESTION"
	TypeQuote         = "QUOTE"
	TypeFleetEnquiry  = "FLEET_ENQUIRY"
	TypePartExchange  = "PART_EXCHANGE"

	StatusNew       = "NEW"
	StatusContacted = "CONTACTED"
	StatusClosed    = "CLOSED"

	PriorityHigh   = "HIGH"
	PriorityNormal = "NORMAL"

	QueueGeneral    = "GENERAL"
	QueueFleet      = "FLEET"
	QueueValuations = "VALUATIONS"
)

// SLA response targets in minutes, by priority.
const (
	SlaHighMinutes   = 15
	SlaNormalMinutes = 60
)

// Enquiry is a single customer-submitted lead together with its owned
// context and part-exchange sub-records.
type Enquiry struct {
	Id   string `json:"id" gorm:"primaryKey;size:36"`
	Mode string `json:"mode" gorm:"size:20;not null;index"`
	Type string `json:"type" gorm:"size:20;not null"`

	Status     string  `json:"status" gorm:"size:20;not null;default:'NEW';index"`
	Priority   string  `json:"priority" gorm:"size:10;not null"`
	Queue      string  `json:"queue" gorm:"size:20;not null;index"`
	AssignedTo *string `json:"assignedTo" gorm:"size:100"`

	// SlaDueAt is fixed at creation; FirstRespondedAt is stamped at most once,
	// on the first transition into CONTACTED.
	SlaDueAt         time.Time  `json:"slaDueAt" gorm:"not null"`
	FirstRespondedAt *time.Time `json:"firstRespondedAt"`

	Name    string  `json:"name" gorm:"size:100;not null"`
	Email   *string `json:"email" gorm:"size:255"`
	Phone   *string `json:"phone" gorm:"size:30"`
	Message string  `json:"message" gorm:"type:text;not null"`

	CompanyName   *string `json:"companyName" gorm:"size:120"`
	FleetSizeBand *string `json:"fleetSizeBand" gorm:"size:50"`
	Timeframe     *string `json:"timeframe" gorm:"size:50"`

	Context *EnquiryContext `json:"context" gorm:"foreignKey:EnquiryId;constraint:OnDelete:CASCADE"`
	PartEx  *EnquiryPartEx  `json:"partEx" gorm:"foreignKey:EnquiryId;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (e *Enquiry) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	return
}

// EnquiryContext captures where a submission came from: page, referrer,
// marketing attribution, device class.
type EnquiryContext struct {
	Id          uint    `json:"-" gorm:"primaryKey"`
	EnquiryId   string  `json:"-" gorm:"size:36;uniqueIndex;not null"`
	PageUrl     string  `json:"pageUrl" gorm:"not null"`
	Referrer    *string `json:"referrer"`
	UtmSource   *string `json:"utmSource" gorm:"size:100"`
	UtmMedium   *string `json:"utmMedium" gorm:"size:100"`
	UtmCampaign *string `json:"utmCampaign" gorm:"size:100"`
	Device      *string `json:"device" gorm:"size:50"`
}

// EnquiryPartEx holds the vehicle being offered in part exchange. Present
// only when the submission's mode/type indicates a part exchange.
type EnquiryPartEx struct {
	Id        uint   `json:"-" gorm:"primaryKey"`
	EnquiryId string `json:"-" gorm:"size:36;uniqueIndex;not null"`
	Reg       string `json:"reg" gorm:"size:20;not null"`
	Mileage   int    `json:"mileage" gorm:"not null"`
}

// IsFleet reports whether the mode/type pair classifies as a fleet enquiry.
func IsFleet(mode, typ string) bool {
	return mode == ModeFleet || typ == TypeFleetEnquiry
}

// IsPartEx reports whether the mode/type pair classifies as a part exchange.
func IsPartEx(mode, typ string) bool {
	return mode == ModePartEx || typ == TypePartExchange
}

// DeriveTriage computes the creation-time triage fields from the enquiry's
// classifiers: fleet and part-exchange leads are HIGH priority with a 15
// minute SLA, everything else is NORMAL with 60 minutes. The queue follows
// the business category.
func DeriveTriage(mode, typ string, createdAt time.Time) (priority, queue string, slaDueAt time.Time) {
	priority = PriorityNormal
	if IsFleet(mode, typ) || IsPartEx(mode, typ) {
		priority = PriorityHigh
	}

	switch {
	case IsFleet(mode, typ):
		queue = QueueFleet
	case IsPartEx(mode, typ):
		queue = QueueValuations
	default:
		queue = QueueGeneral
	}

	slaMinutes := SlaNormalMinutes
	if priority == PriorityHigh {
		slaMinutes = SlaHighMinutes
	}
	slaDueAt = createdAt.Add(time.Duration(slaMinutes) * time.Minute)
	return priority, queue, slaDueAt
}
