// Package domain holds the admissions pipeline vocabulary: pipeline stages,
// lead attribute enums, automation trigger types, and score bands.
package domain

// Stage is the admissions pipeline stage of a lead.
const (
	StageInquiry     = "INQUIRY"
	StageContacted   = "CONTACTED"
	StageTour        = "TOUR"
	StageApplication = "APPLICATION"
	StageEnrolled    = "ENROLLED"
	StageLost        = "LOST"
)

// TourStatus tracks the campus tour progress for a lead.
type TourStatus string

const (
	TourNone      TourStatus = "NONE"
	TourScheduled TourStatus = "SCHEDULED"
	TourCompleted TourStatus = "COMPLETED"
)

// FeeConcernLevel captures how strongly the guardian raised fee objections.
// A nil value in the lead record means the concern was never probed.
type FeeConcernLevel string

const (
	FeeConcernNone   FeeConcernLevel = "NONE"
	FeeConcernMild   FeeConcernLevel = "MILD"
	FeeConcernStrong FeeConcernLevel = "STRONG"
)

// FollowUp status values. OVERDUE is derived at read time
// (status=PENDING and scheduled_at in the past), never stored.
const (
	FollowUpPending   = "PENDING"
	FollowUpCompleted = "COMPLETED"
	FollowUpOverdue   = "OVERDUE"
	FollowUpCancelled = "CANCELLED"
)

// FollowUp task types.
const (
	FollowUpTypeCall  = "CALL"
	FollowUpTypeVisit = "VISIT"
)

// LeadInteraction types. Interactions are append-only timeline entries.
const (
	InteractionAutomation  = "AUTOMATION"
	InteractionWhatsAppMsg = "WHATSAPP_MSG"
	InteractionCallLog     = "CALL_LOG"
	InteractionNote        = "NOTE"
)
