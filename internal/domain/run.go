package domain

import (
	"encoding/json"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
	"github.com/google/uuid"
)

// Run это одна попытка выполнения workflow.
//
// Run создаётся в статусе pending, изменяется только orchestrator'ом
// и становится неизменяемым после перехода в completed или failed.
type Run struct {
	// ID это уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// WorkflowID это ссылка на выполняемый workflow.
	WorkflowID string `json:"workflow_id,omitempty"`

	// Status это текущий статус выполнения.
	Status RunStatus `json:"status"`

	// StartedAt это время перехода в running.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt заполняется при переходе в completed или failed.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Results это результаты шагов в порядке выполнения.
	Results []StepResult `json:"results"`

	// Output это агрегированный результат. Заполняется только для completed.
	Output *RunOutput `json:"output,omitempty"`

	// Error это текст ошибки, остановившей run.
	Error string `json:"error,omitempty"`

	// CreatedAt это время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run в статусе pending.
func NewRun(workflowID string) *Run {
	return &Run{
		ID:         uuid.New(),
		WorkflowID: workflowID,
		Status:     RunStatusPending,
		Results:    make([]StepResult, 0),
		CreatedAt:  time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус running.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
	r.FinishedAt = nil
	r.Results = make([]StepResult, 0)
	r.Output = nil
	r.Error = ""
}

// MarkCompleted переводит run в статус completed с агрегированным результатом.
func (r *Run) MarkCompleted(output *RunOutput) {
	now := time.Now()
	r.Status = RunStatusCompleted
	r.FinishedAt = &now
	r.Output = output
}

// MarkFailed переводит run в статус failed с ошибкой.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.Error = err
}

// AddResult добавляет результат шага.
func (r *Run) AddResult(result StepResult) {
	r.Results = append(r.Results, result)
}

// FailedStep возвращает результат упавшего шага, если он есть.
func (r *Run) FailedStep() (*StepResult, bool) {
	for i := range r.Results {
		if r.Results[i].Status == StepStatusError {
			return &r.Results[i], true
		}
	}
	return nil, false
}

// StepResult это результат выполнения одного шага.
// Создаётся один раз на шаг за run и больше не меняется.
type StepResult struct {
	NodeID   string     `json:"node_id"`
	NodeType string     `json:"node_type"`
	Status   StepStatus `json:"status"`

	// Input это конфигурация после подстановки переменных.
	Input value.Map `json:"input,omitempty"`

	// Unresolved это ссылки {{...}}, оставшиеся в Input без изменений.
	Unresolved []string `json:"unresolved,omitempty"`

	// Output это сырой результат executor'а (только для success).
	Output value.Value `json:"output,omitempty"`

	// Error это описание ошибки (только для error).
	Error string `json:"error,omitempty"`

	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`

	// ExtractedData это нормализованная проекция Output (см. variables.Extractor).
	ExtractedData value.Map `json:"extracted_data,omitempty"`
}

// UnmarshalJSON восстанавливает Output как value.Value.
func (r *StepResult) UnmarshalJSON(data []byte) error {
	type alias StepResult
	aux := struct {
		*alias
		Output json.RawMessage `json:"output,omitempty"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Output = nil
	if len(aux.Output) > 0 {
		v, err := value.Decode(aux.Output)
		if err != nil {
			return err
		}
		r.Output = v
	}
	return nil
}

// RunOutput это агрегированный результат успешного run.
type RunOutput struct {
	// StepCount это количество выполненных шагов.
	StepCount int `json:"step_count"`

	// Duration это общее время выполнения.
	Duration time.Duration `json:"duration"`

	// Results это полный список результатов шагов.
	Results []StepResult `json:"results"`

	// Variables это снимок хранилища переменных на момент завершения.
	// Его можно передать в следующий run или показать пользователю.
	Variables map[string]VariableSnapshot `json:"variables"`
}
