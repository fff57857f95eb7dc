package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskValidateBatch = "phonenumbers.validate_batch"

type ValidateBatchPayload struct {
	BatchID string `json:"batchId"`
}

func NewValidateBatchTask(payload ValidateBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskValidateBatch, data), nil
}

func ParseValidateBatchPayload(task *asynq.Task) (ValidateBatchPayload, error) {
	var payload ValidateBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ValidateBatchPayload{}, err
	}
	return payload, nil
}
