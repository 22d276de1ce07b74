package variables

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

func registerBuiltinRules(e *Extractor) {
	e.Register("cloudwatch", extractCloudWatch)
	e.Register("dynamodb", extractDynamoDB)
	e.Register("lambda", extractLambda)
	e.Register("s3", extractS3)
	e.Register("sqs", extractSQS)
	e.Register("http", extractHTTP)
}

// Шаблоны для поиска идентификаторов в текстах логов.
var (
	userIDPattern    = regexp.MustCompile(`(?i)user[_-]?id["']?\s*[:=]\s*["']?([A-Za-z0-9_.@-]+)`)
	requestIDPattern = regexp.MustCompile(`(?i)request[_-]?id["']?\s*[:=]\s*["']?([A-Za-z0-9-]+)`)
	errorPattern     = regexp.MustCompile(`(?i)\b(?:error|exception)\b[:\s]+(.+)$`)
)

// extractCloudWatch обрабатывает результат запроса к логам.
//
// Поддерживает плоские события ({message, timestamp, logStream}) и строки
// Logs Insights ([{field, value}, ...]).
func extractCloudWatch(raw value.Value) (value.Map, error) {
	m, err := requireMap(raw)
	if err != nil {
		return nil, err
	}

	events := list(m, "results", "events", "Results", "Events")

	var (
		messages   = make(value.List, 0, len(events))
		timestamps = make(value.List, 0, len(events))
		streams    = newUniqueSet()
		userIDs    = newUniqueSet()
		requestIDs = newUniqueSet()
		errorMsgs  = newUniqueSet()
	)

	for _, item := range events {
		event := cloudWatchEvent(item)
		if event == nil {
			continue
		}

		msg := str(event, "message", "Message")
		messages = append(messages, value.String(msg))
		if ts, ok := lookup(event, "timestamp", "Timestamp"); ok {
			timestamps = append(timestamps, ts)
		}
		streams.add(str(event, "logStream", "logStreamName"))

		for _, match := range userIDPattern.FindAllStringSubmatch(msg, -1) {
			userIDs.add(match[1])
		}
		for _, match := range requestIDPattern.FindAllStringSubmatch(msg, -1) {
			requestIDs.add(match[1])
		}
		if match := errorPattern.FindStringSubmatch(msg); match != nil {
			errorMsgs.add(strings.TrimSpace(match[1]))
		}
	}

	return value.Map{
		"eventCount":    value.Number(len(events)),
		"messages":      messages,
		"timestamps":    timestamps,
		"logStreams":    streams.list(),
		"userIds":       userIDs.list(),
		"requestIds":    requestIDs.list(),
		"errorMessages": errorMsgs.list(),
		"queryId":       orNull(m, "queryId", "QueryId"),
	}, nil
}

// cloudWatchEvent приводит событие к map. Поля Insights (@message) теряют префикс @.
func cloudWatchEvent(item value.Value) value.Map {
	switch t := item.(type) {
	case value.Map:
		return t
	case value.List:
		event := make(value.Map, len(t))
		for _, f := range t {
			field, ok := value.AsMap(f)
			if !ok {
				continue
			}
			name := strings.TrimPrefix(str(field, "field"), "@")
			if name == "" {
				continue
			}
			event[name] = orNull(field, "value")
		}
		return event
	default:
		return nil
	}
}

// extractDynamoDB обрабатывает результат scan/query.
// Значения в формате AttributeValue ({"S": "..."}) разворачиваются.
func extractDynamoDB(raw value.Value) (value.Map, error) {
	m, err := requireMap(raw)
	if err != nil {
		return nil, err
	}

	rawItems := list(m, "items", "Items")
	items := make(value.List, 0, len(rawItems))
	attrs := newUniqueSet()
	userIDs := newUniqueSet()

	for _, rawItem := range rawItems {
		item, ok := value.AsMap(unwrapAttribute(rawItem))
		if !ok {
			continue
		}
		items = append(items, item)

		for _, name := range item.Keys() {
			attrs.add(name)
		}
		for _, key := range []string{"userId", "user_id", "userID"} {
			if v, ok := item[key]; ok {
				userIDs.add(value.Text(v))
			}
		}
	}

	itemCount := value.Number(len(items))
	if n, ok := number(m, "count", "Count"); ok {
		itemCount = value.Number(n)
	}
	scannedCount := itemCount
	if n, ok := number(m, "scannedCount", "ScannedCount"); ok {
		scannedCount = value.Number(n)
	}

	var first value.Value = value.Null{}
	if len(items) > 0 {
		first = items[0]
	}

	lastKey := orNull(m, "lastEvaluatedKey", "LastEvaluatedKey")

	return value.Map{
		"itemCount":        itemCount,
		"scannedCount":     scannedCount,
		"items":            items,
		"firstItem":        first,
		"attributeNames":   attrs.list(),
		"userIds":          userIDs.list(),
		"lastEvaluatedKey": unwrapAttribute(lastKey),
	}, nil
}

// unwrapAttribute разворачивает DynamoDB AttributeValue в обычное значение.
func unwrapAttribute(v value.Value) value.Value {
	switch t := v.(type) {
	case value.List:
		out := make(value.List, len(t))
		for i, item := range t {
			out[i] = unwrapAttribute(item)
		}
		return out
	case value.Map:
		if len(t) == 1 {
			for tag, inner := range t {
				switch tag {
				case "S", "SS", "B", "BS":
					return inner
				case "N":
					if s, ok := value.AsString(inner); ok {
						if n, err := json.Number(s).Float64(); err == nil {
							return value.Number(n)
						}
					}
					return inner
				case "NS":
					return unwrapAttribute(inner)
				case "BOOL":
					return inner
				case "NULL":
					return value.Null{}
				case "L":
					return unwrapAttribute(inner)
				case "M":
					return unwrapAttribute(inner)
				}
			}
		}
		out := make(value.Map, len(t))
		for k, item := range t {
			out[k] = unwrapAttribute(item)
		}
		return out
	default:
		return v
	}
}

// extractLambda обрабатывает результат вызова функции.
func extractLambda(raw value.Value) (value.Map, error) {
	m, err := requireMap(raw)
	if err != nil {
		return nil, err
	}

	status, hasStatus := number(m, "statusCode", "StatusCode")
	functionError := str(m, "functionError", "FunctionError")

	var payload value.Value = value.Null{}
	if p, ok := lookup(m, "payload", "Payload"); ok {
		payload = decodeJSONString(p)
	}

	statusCode := value.Value(value.Null{})
	if hasStatus {
		statusCode = value.Number(status)
	}

	var fnErr value.Value = value.Null{}
	if functionError != "" {
		fnErr = value.String(functionError)
	}

	return value.Map{
		"statusCode":      statusCode,
		"functionError":   fnErr,
		"success":         value.Bool(hasStatus && status >= 200 && status < 300 && functionError == ""),
		"executedVersion": orNull(m, "executedVersion", "ExecutedVersion"),
		"payload":         payload,
		"logTail":         orNull(m, "logTail", "logResult", "LogResult"),
	}, nil
}

// extractS3 обрабатывает листинг объектов бакета.
func extractS3(raw value.Value) (value.Map, error) {
	m, err := requireMap(raw)
	if err != nil {
		return nil, err
	}

	objects := list(m, "objects", "contents", "Contents")
	keys := make(value.List, 0, len(objects))

	var (
		totalSize    float64
		lastModified string
	)

	for _, o := range objects {
		obj, ok := value.AsMap(o)
		if !ok {
			continue
		}
		keys = append(keys, value.String(str(obj, "key", "Key")))
		if size, ok := number(obj, "size", "Size"); ok {
			totalSize += size
		}
		// RFC 3339 в одном формате сравнивается лексикографически
		if mod := str(obj, "lastModified", "LastModified"); mod > lastModified {
			lastModified = mod
		}
	}

	var last value.Value = value.Null{}
	if lastModified != "" {
		last = value.String(lastModified)
	}

	return value.Map{
		"bucket":       orNull(m, "bucket", "Bucket", "name", "Name"),
		"objectCount":  value.Number(len(keys)),
		"keys":         keys,
		"totalSize":    value.Number(totalSize),
		"lastModified": last,
	}, nil
}

// extractSQS обрабатывает полученные сообщения очереди.
func extractSQS(raw value.Value) (value.Map, error) {
	m, err := requireMap(raw)
	if err != nil {
		return nil, err
	}

	messages := list(m, "messages", "Messages")
	ids := make(value.List, 0, len(messages))
	bodies := make(value.List, 0, len(messages))

	for _, item := range messages {
		msg, ok := value.AsMap(item)
		if !ok {
			continue
		}
		ids = append(ids, value.String(str(msg, "messageId", "MessageId")))
		bodies = append(bodies, orNull(msg, "body", "Body"))
	}

	return value.Map{
		"messageCount": value.Number(len(ids)),
		"messageIds":   ids,
		"bodies":       bodies,
	}, nil
}

// extractHTTP обрабатывает ответ http шага.
func extractHTTP(raw value.Value) (value.Map, error) {
	m, err := requireMap(raw)
	if err != nil {
		return nil, err
	}

	status, hasStatus := number(m, "statusCode", "status_code", "status")

	contentType := str(m, "contentType", "content_type")
	if contentType == "" {
		if headers, ok := value.AsMap(orNull(m, "headers")); ok {
			for k, v := range headers {
				if strings.EqualFold(k, "Content-Type") {
					contentType = value.Text(v)
					break
				}
			}
		}
	}

	statusCode := value.Value(value.Null{})
	if hasStatus {
		statusCode = value.Number(status)
	}

	return value.Map{
		"statusCode":  statusCode,
		"contentType": value.String(contentType),
		"body":        orNull(m, "body"),
		"ok":          value.Bool(hasStatus && status >= 200 && status < 300),
	}, nil
}

// --- helpers ---

func requireMap(raw value.Value) (value.Map, error) {
	m, ok := value.AsMap(raw)
	if !ok {
		return nil, fmt.Errorf("%w: expected map, got %s", ErrMalformedOutput, value.KindOf(raw))
	}
	return m, nil
}

// lookup возвращает первое найденное поле из списка имён.
func lookup(m value.Map, names ...string) (value.Value, bool) {
	for _, name := range names {
		if v, ok := m[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func orNull(m value.Map, names ...string) value.Value {
	if v, ok := lookup(m, names...); ok {
		return v
	}
	return value.Null{}
}

func str(m value.Map, names ...string) string {
	v, ok := lookup(m, names...)
	if !ok {
		return ""
	}
	if s, ok := value.AsString(v); ok {
		return s
	}
	if _, isNull := v.(value.Null); isNull {
		return ""
	}
	return value.Text(v)
}

func number(m value.Map, names ...string) (float64, bool) {
	v, ok := lookup(m, names...)
	if !ok {
		return 0, false
	}
	return value.AsNumber(v)
}

func list(m value.Map, names ...string) value.List {
	v, ok := lookup(m, names...)
	if !ok {
		return nil
	}
	l, _ := value.AsList(v)
	return l
}

// decodeJSONString декодирует строку с JSON. Остальные значения возвращаются как есть.
func decodeJSONString(v value.Value) value.Value {
	s, ok := value.AsString(v)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[' && trimmed[0] != '"') {
		return v
	}
	decoded, err := value.Decode([]byte(trimmed))
	if err != nil {
		return v
	}
	return decoded
}

// uniqueSet собирает уникальные непустые строки в порядке появления.
type uniqueSet struct {
	seen  map[string]struct{}
	items value.List
}

func newUniqueSet() *uniqueSet {
	return &uniqueSet{seen: make(map[string]struct{}), items: value.List{}}
}

func (u *uniqueSet) add(s string) {
	if s == "" {
		return
	}
	if _, ok := u.seen[s]; ok {
		return
	}
	u.seen[s] = struct{}{}
	u.items = append(u.items, value.String(s))
}

func (u *uniqueSet) list() value.List {
	return u.items
}
