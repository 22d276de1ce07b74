package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// Output управляет форматированием вывода CLI.
// Данные идут в w, сообщения в errW: вывод --json можно передавать в jq.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

// NewOutput создаёт Output.
func NewOutput(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        w,
		errW:     errW,
	}
}

// Print выводит таблицу или JSON в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит данные таблицей через tabwriter.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// JSON выводит данные в JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		o.Error(err.Error())
	}
}

// PrintRun выводит результаты шагов run.
func (o *Output) PrintRun(run *domain.Run) {
	if o.jsonMode {
		o.JSON(run)
		return
	}

	rows := make([][]string, len(run.Results))
	for i, r := range run.Results {
		note := r.Error
		if note == "" && len(r.Unresolved) > 0 {
			note = "unresolved: " + strings.Join(r.Unresolved, ", ")
		}
		rows[i] = []string{
			r.NodeID,
			r.NodeType,
			string(r.Status),
			r.Duration.Round(time.Millisecond).String(),
			dash(note),
		}
	}
	o.Table([]string{"NODE", "TYPE", "STATUS", "DURATION", "NOTE"}, rows)

	if run.Status == domain.RunStatusFailed {
		o.Error(fmt.Sprintf("run %s failed: %s", run.ID, run.Error))
	}
}

// Success выводит сообщение в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Warn выводит предупреждение в stderr.
func (o *Output) Warn(msg string) {
	fmt.Fprintln(o.errW, "Warning: "+msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
