package entity

import (
	"slices"
	"time"

	"remindee/internal/domain/constant"
)

// Kind tells the two reminder tables apart wherever an id alone is ambiguous.
type Kind int

const (
	KindOneShot Kind = iota
	KindCron
)

func (k Kind) String() string {
	if k == KindCron {
		return "cron"
	}
	return "oneshot"
}

// ParseKind accepts the textual forms used in API paths.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "oneshot", "one-shot", "reminder":
		return KindOneShot, true
	case "cron":
		return KindCron, true
	default:
		return KindOneShot, false
	}
}

// GenericReminder is the view shared by *Reminder and *CronReminder for
// listing and ordering.
type GenericReminder interface {
	GetID() uint
	GetChatID() int64
	DueTime() time.Time
	Description() string
	IsPaused() bool
	EditSlot() (bool, constant.EditMode)
	IsCron() bool
	Kind() Kind
}

var (
	_ GenericReminder = (*Reminder)(nil)
	_ GenericReminder = (*CronReminder)(nil)
)

// Compare orders reminders by due time, then one-shot before cron, then id.
// Two reminders compare equal only if they have the same kind and id.
func Compare(a, b GenericReminder) int {
	if c := a.DueTime().Compare(b.DueTime()); c != 0 {
		return c
	}
	if a.IsCron() != b.IsCron() {
		if a.IsCron() {
			return 1
		}
		return -1
	}
	switch {
	case a.GetID() < b.GetID():
		return -1
	case a.GetID() > b.GetID():
		return 1
	default:
		return 0
	}
}

// SortReminders sorts rs in place by Compare.
func SortReminders(rs []GenericReminder) {
	slices.SortFunc(rs, Compare)
}

// Merge wraps concrete rows into GenericReminder and returns them sorted.
// Either kind can be left out of the result.
func Merge(oneShot []*Reminder, cron []*CronReminder, excludeOneShot, excludeCron bool) []GenericReminder {
	out := make([]GenericReminder, 0, len(oneShot)+len(cron))
	if !excludeOneShot {
		for _, r := range oneShot {
			out = append(out, r)
		}
	}
	if !excludeCron {
		for _, r := range cron {
			out = append(out, r)
		}
	}
	SortReminders(out)
	return out
}
