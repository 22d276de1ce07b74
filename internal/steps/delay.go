package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// StepTypeDelay это тип шага задержки.
const StepTypeDelay = "delay"

// delayKeys это ключи длительности в порядке приоритета.
var delayKeys = []struct {
	key  string
	unit time.Duration
}{
	{"duration", time.Second},
	{"duration_sec", time.Second},
	{"duration_ms", time.Millisecond},
}

// DelayStep приостанавливает workflow на заданное время. Отмена ctx
// прерывает ожидание.
//
//	{"duration": "1m30s"}  {"duration_sec": 10}  {"duration_ms": "{{cfg.data.pause}}"}
type DelayStep struct{}

func NewDelayStep() *DelayStep { return &DelayStep{} }

func (s *DelayStep) Type() string { return StepTypeDelay }

// Execute ждёт и возвращает {"duration_ms": N, "duration": "1.5s"}.
func (s *DelayStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	var wait time.Duration
	for _, k := range delayKeys {
		if wait = GetConfigDuration(req.Config, k.key, k.unit); wait > 0 {
			break
		}
	}
	if wait <= 0 {
		return nil, fmt.Errorf("%w: %s: positive duration, duration_sec or duration_ms required",
			ErrInvalidConfig, StepTypeDelay)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s after %s: %v", ErrStepCancelled, StepTypeDelay, wait, ctx.Err())
	case <-timer.C:
	}

	return NewResponse(value.Map{
		"duration_ms": value.Number(wait.Milliseconds()),
		"duration":    value.String(wait.String()),
	}), nil
}
