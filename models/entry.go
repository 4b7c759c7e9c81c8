package models

// EntryType defines the set of check-in templates a message can be classified as.
type EntryType string

const (
	EntryTypeAM      EntryType = "AM"
	EntryTypePM      EntryType = "PM"
	EntryTypeUnknown EntryType = "UNKNOWN"
)

// Record field names shared by every entry.
const (
	FieldEntryType = "EntryType"
	FieldDate      = "Date"
	FieldSource    = "Source"
)

// SourceWhatsApp tags records ingested through the WhatsApp webhook.
const SourceWhatsApp = "WhatsApp"

// Fields is a flat mapping of record field name to scalar value.
// Integers are stored as int, decimals as float64 and free text as string.
type Fields map[string]any

// Entry is one structured check-in extracted from a single inbound message.
// Fields only holds the keys whose patterns matched.
type Entry struct {
	Type   EntryType
	Fields Fields
}

// Record builds the data store payload for the entry. Extracted field names
// and values are copied unchanged; absent fields stay absent.
func (e Entry) Record(date, source string) Fields {
	record := make(Fields, len(e.Fields)+3)
	record[FieldDate] = date
	record[FieldSource] = source
	for name, value := range e.Fields {
		record[name] = value
	}
	record[FieldEntryType] = string(e.Type)
	return record
}
