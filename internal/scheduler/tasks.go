package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWhatsAppReadReceipt = "whatsapp.read_receipt"

const TaskEscalationSweep = "admissions.escalation.sweep"

type WhatsAppReadReceiptPayload struct {
	LeadID   string `json:"leadId"`
	SchoolID string `json:"schoolId"`
}

type EscalationSweepPayload struct {
	SchoolID string `json:"schoolId"`
}

func NewWhatsAppReadReceiptTask(payload WhatsAppReadReceiptPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWhatsAppReadReceipt, data), nil
}

func ParseWhatsAppReadReceiptPayload(task *asynq.Task) (WhatsAppReadReceiptPayload, error) {
	var payload WhatsAppReadReceiptPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WhatsAppReadReceiptPayload{}, err
	}
	return payload, nil
}

func NewEscalationSweepTask(payload EscalationSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEscalationSweep, data), nil
}

func ParseEscalationSweepPayload(task *asynq.Task) (EscalationSweepPayload, error) {
	var payload EscalationSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return EscalationSweepPayload{}, err
	}
	return payload, nil
}
