package domain

import "strings"

// TableStatus is the seating state of a table.
type TableStatus string

const (
	TableStatusUnknown   TableStatus = ""
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

var allowedTableStatuses = map[string]TableStatus{
	string(TableStatusAvailable): TableStatusAvailable,
	string(TableStatusOccupied):  TableStatusOccupied,
	string(TableStatusReserved):  TableStatusReserved,
}

// NormalizeTableStatus coerces any input into a canonical table status.
// Unrecognised values yield TableStatusUnknown.
func NormalizeTableStatus(value any) TableStatus {
	s, ok := value.(string)
	if !ok {
		return TableStatusUnknown
	}
	if status, ok := allowedTableStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status
	}
	return TableStatusUnknown
}

// Table represents a seating resource in the dining room. ID is assigned by the
// store when omitted on creation.
type Table struct {
	ID       int64       `json:"id,omitempty"`
	Number   int         `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}

// WithDefaults fills the status a new table starts with.
func (t Table) WithDefaults() Table {
	if t.Status == TableStatusUnknown {
		t.Status = TableStatusAvailable
	}
	return t
}
