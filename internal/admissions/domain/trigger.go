package domain

import "fmt"

// TriggerType is the lead lifecycle event that causes the automation
// dispatcher to act.
type TriggerType string

const (
	TriggerNewLead       TriggerType = "NEW_LEAD"
	TriggerStatusChange  TriggerType = "STATUS_CHANGE"
	TriggerTourScheduled TriggerType = "TOUR_SCHEDULED"
	TriggerTourCompleted TriggerType = "TOUR_COMPLETED"
	TriggerNoAnswer      TriggerType = "NO_ANSWER"
)

// ParseTriggerType validates a raw trigger string from the API.
func ParseTriggerType(raw string) (TriggerType, error) {
	switch TriggerType(raw) {
	case TriggerNewLead, TriggerStatusChange, TriggerTourScheduled, TriggerTourCompleted, TriggerNoAnswer:
		return TriggerType(raw), nil
	default:
		return "", fmt.Errorf("unknown trigger type %q", raw)
	}
}
