package constants

// Source identifies which of the three inputs a record (or an unmapped
// article name) came from.
type Source string

// Stable values (these exact strings appear in QC artifacts and logs).
const (
	SourceJournal    Source = "fiskal"       // point-of-sale journal dump
	SourceShiftCount Source = "mengenliste"  // transcribed shift-count report
	SourcePreOrder   Source = "bestellungen" // pre-order CSV export
)

// Date and timestamp layouts shared across packages.
const (
	DateLayout             = "2006-01-02"
	TimeLayout             = "15:04:05"
	MonthLayout            = "2006-01"
	JournalTimestampLayout = "02.01.2006 15:04:05"
)
