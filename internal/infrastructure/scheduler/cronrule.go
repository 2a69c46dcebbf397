package scheduler

import (
	"fmt"
	"strings"
	"time"

	appErrors "remindee/internal/pkg/errors"

	"github.com/robfig/cron/v3"
)

// parser accepts standard five-field expressions, an optional leading seconds
// field, descriptors (@daily, @every 90m) and a CRON_TZ= prefix.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateCron reports whether expr parses.
func ValidateCron(expr string) error {
	if _, err := parser.Parse(strings.TrimSpace(expr)); err != nil {
		return fmt.Errorf("%w: %q: %v", appErrors.ErrCronParse, expr, err)
	}
	return nil
}

// NextOccurrence returns the first trigger of expr strictly after after, in UTC.
// The expression is evaluated in after's location unless it carries CRON_TZ.
func NextOccurrence(expr string, after time.Time) (time.Time, error) {
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", appErrors.ErrCronParse, expr, err)
	}
	next := sched.Next(after)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q has no occurrence after %s", appErrors.ErrCronParse, expr, after.Format(time.RFC3339))
	}
	return next.UTC(), nil
}
