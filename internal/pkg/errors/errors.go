package errors

import "errors"

// Custom application errors
var (
	ErrStorage            = errors.New("storage operation failed")                // I/O, connection or constraint failure in the backing store
	ErrNotFound           = errors.New("reminder not found")                      // Operation targeted a nonexistent id
	ErrCronParse          = errors.New("invalid cron expression")                 // Malformed recurrence rule or no future occurrence
	ErrEditStateViolation = errors.New("more than one reminder in edit mode")     // Single edit slot per chat was broken
	ErrNoEditInProgress   = errors.New("no reminder is being edited")             // Edit input arrived without an edit slot
	ErrInvalidEditInput   = errors.New("edit input does not match the edit mode") // Wrong kind of value for the current edit mode
	ErrInvalidTimezone    = errors.New("unknown timezone")                        // Not an IANA timezone name
	ErrInvalidReminder    = errors.New("invalid reminder")                        // Missing description, zero time, bad kind
)
