package domain

// Origin tags where an occurrence came from.
type Origin string

const (
	// OriginPersisted marks occurrences read back from storage. They are
	// authoritative and may carry manual edits.
	OriginPersisted Origin = "persisted"
	// OriginGenerated marks occurrences computed from a recurrence pattern
	// during the current request.
	OriginGenerated Origin = "generated"
)

// Placeholder is shown in place of missing denormalized names.
const Placeholder = "—"

// DateLayout is the calendar-date layout used in storage, flags and import files.
const DateLayout = "2006-01-02"
