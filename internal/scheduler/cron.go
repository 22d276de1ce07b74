package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser разбирает стандартные 5-польные выражения и дескрипторы (@hourly, @every 5m).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule разбирает выражение в часовом поясе tz.
// Пустой или неизвестный tz означает UTC.
func ParseSchedule(expr, tz string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	// явный CRON_TZ= в выражении важнее tz по умолчанию
	explicitTZ := strings.HasPrefix(expr, "CRON_TZ=") || strings.HasPrefix(expr, "TZ=")
	if spec, ok := schedule.(*cron.SpecSchedule); ok && (tz != "" || !explicitTZ) {
		spec.Location = location(tz)
	}
	return schedule, nil
}

// NextDue возвращает следующее время срабатывания после from (в UTC).
func NextDue(expr, tz string, from time.Time) (time.Time, error) {
	schedule, err := ParseSchedule(expr, tz)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from.In(location(tz))).UTC(), nil
}

// ValidateCronExpr проверяет cron-выражение.
func ValidateCronExpr(expr string) error {
	_, err := ParseSchedule(expr, "")
	return err
}

func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
