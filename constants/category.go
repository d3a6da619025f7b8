package constants

// UnknownCategory is the sentinel used when a journal item line has no
// Warengruppe line following it.
const (
	UnknownCategory       = "Unknown"
	UnknownCategoryNumber = 0
)
