package constant

// EditMode selects which field of the reminder in a chat's edit slot
// the next user input replaces.
type EditMode int

const (
	// EditModeNone means no field is selected yet (or the reminder is not being edited).
	EditModeNone EditMode = iota
	// EditModeDescription selects the reminder text.
	EditModeDescription
	// EditModeTime selects the trigger: the instant of a one-shot reminder,
	// the cron expression of a recurring one.
	EditModeTime
)

func (m EditMode) Int() int {
	return int(m)
}

func (m EditMode) String() string {
	switch m {
	case EditModeNone:
		return "none"
	case EditModeDescription:
		return "description"
	case EditModeTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseEditMode maps the textual form used by the API back to an EditMode.
func ParseEditMode(s string) (EditMode, bool) {
	switch s {
	case "none", "":
		return EditModeNone, true
	case "description":
		return EditModeDescription, true
	case "time":
		return EditModeTime, true
	default:
		return EditModeNone, false
	}
}
