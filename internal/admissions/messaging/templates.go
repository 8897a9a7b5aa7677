package messaging

import (
	"fmt"

	"admissions_crm_backend/internal/admissions/domain"
)

// Template identifies the outbound message template used for a send.
type Template string

const (
	TemplateWelcome          Template = "welcome"
	TemplateTourConfirmation Template = "tour_confirmation"
	TemplateTourThankYou     Template = "post_visit_thank_you"
	TemplateMissedCall       Template = "missed_call_auto_reply"
)

// Body renders the message text for a template. Bands tune the welcome copy:
// hot leads get a direct scheduling nudge, colder ones a softer intro.
func (t Template) Body(guardianName, schoolName string, band domain.Band) string {
	switch t {
	case TemplateWelcome:
		if band == domain.BandHot || band == domain.BandWarm {
			return fmt.Sprintf("Hi %s! Thanks for your interest in %s. Our admissions team will call you within 2 hours - would you like to book a campus tour right away?", guardianName, schoolName)
		}
		return fmt.Sprintf("Hi %s! Thanks for your interest in %s. We'd love to tell you more about our programs - our team will be in touch shortly.", guardianName, schoolName)
	case TemplateTourConfirmation:
		return fmt.Sprintf("Hi %s, your campus tour at %s is confirmed. We look forward to welcoming you!", guardianName, schoolName)
	case TemplateTourThankYou:
		return fmt.Sprintf("Hi %s, thank you for visiting %s today! Let us know if you have any questions about the next steps.", guardianName, schoolName)
	case TemplateMissedCall:
		return fmt.Sprintf("Hi %s, we tried calling you just now about your inquiry at %s but couldn't reach you. Reply here and we'll get right back to you.", guardianName, schoolName)
	default:
		return fmt.Sprintf("Hi %s, this is %s admissions following up on your inquiry.", guardianName, schoolName)
	}
}
