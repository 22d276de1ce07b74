package domain

import (
	"encoding/json"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// Поля записи NodeOutput, доступные в путях переменных.
const (
	OutputFieldNodeID        = "nodeId"
	OutputFieldNodeType      = "nodeType"
	OutputFieldStatus        = "status"
	OutputFieldData          = "data"
	OutputFieldExtractedData = "extractedData"
	OutputFieldTimestamp     = "timestamp"
	OutputFieldExecutionTime = "executionTime"
)

// NodeOutput это сохранённый результат успешного шага в хранилище переменных.
type NodeOutput struct {
	NodeID        string
	NodeType      string
	Status        StepStatus
	Data          value.Value
	ExtractedData value.Map
	Timestamp     time.Time
	Duration      time.Duration
}

// Record возвращает NodeOutput как value.Map.
//
// Это корень, от которого разрешается путь переменной:
// {{A.extractedData.userIds[0]}} начинает обход с поля extractedData.
func (o *NodeOutput) Record() value.Map {
	data := o.Data
	if data == nil {
		data = value.Null{}
	}
	extracted := o.ExtractedData
	if extracted == nil {
		extracted = value.Map{}
	}

	return value.Map{
		OutputFieldNodeID:        value.String(o.NodeID),
		OutputFieldNodeType:      value.String(o.NodeType),
		OutputFieldStatus:        value.String(string(o.Status)),
		OutputFieldData:          data,
		OutputFieldExtractedData: extracted,
		OutputFieldTimestamp:     value.String(o.Timestamp.UTC().Format(time.RFC3339Nano)),
		OutputFieldExecutionTime: value.Number(o.Duration.Milliseconds()),
	}
}

// Snapshot возвращает публичное представление для RunOutput.Variables.
func (o *NodeOutput) Snapshot() VariableSnapshot {
	return VariableSnapshot{
		Type:          o.NodeType,
		Data:          value.Clone(o.Data),
		ExtractedData: value.CloneMap(o.ExtractedData),
		Timestamp:     o.Timestamp,
	}
}

// VariableSnapshot это переменные одного шага на момент снимка.
type VariableSnapshot struct {
	Type          string      `json:"type"`
	Data          value.Value `json:"data"`
	ExtractedData value.Map   `json:"extracted_data"`
	Timestamp     time.Time   `json:"timestamp"`
}

// UnmarshalJSON восстанавливает Data как value.Value.
func (s *VariableSnapshot) UnmarshalJSON(data []byte) error {
	type alias VariableSnapshot
	aux := struct {
		*alias
		Data json.RawMessage `json:"data"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Data = nil
	if len(aux.Data) > 0 {
		v, err := value.Decode(aux.Data)
		if err != nil {
			return err
		}
		s.Data = v
	}
	return nil
}
