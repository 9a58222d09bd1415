package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeSyncRun = "sync:run"
)

type SyncRunPayload struct{}

// NewSyncRunTask builds the periodic full-sync task. Uniqueness over the
// schedule interval keeps overlapping scheduled runs from piling up; a manual
// HTTP trigger bypasses the queue entirely and stays last-writer-wins.
func NewSyncRunTask(interval time.Duration, opts ...asynq.Option) (*asynq.Task, error) {
	payload := SyncRunPayload{}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	uniqueOpt := asynq.Unique(interval)
	allOpts := append(opts, uniqueOpt)

	return asynq.NewTask(TypeSyncRun, payloadBytes, allOpts...), nil
}
