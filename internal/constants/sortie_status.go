package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// SortieStatus is the lifecycle state of a sortie.
type SortieStatus string

const (
	SortieScheduled  SortieStatus = "SCHEDULED"
	SortieDispatched SortieStatus = "DISPATCHED"
	SortieInFlight   SortieStatus = "IN_FLIGHT"
	SortieCompleted  SortieStatus = "COMPLETED"
	SortieCancelled  SortieStatus = "CANCELLED"
	SortieNoShow     SortieStatus = "NO_SHOW"
)

// AllSortieStatuses lists every status in lifecycle order.
var AllSortieStatuses = []SortieStatus{
	SortieScheduled,
	SortieDispatched,
	SortieInFlight,
	SortieCompleted,
	SortieCancelled,
	SortieNoShow,
}

func (s SortieStatus) String() string { return string(s) }

func (s SortieStatus) Valid() bool {
	switch s {
	case SortieScheduled, SortieDispatched, SortieInFlight,
		SortieCompleted, SortieCancelled, SortieNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further instructor transition exists from s.
func (s SortieStatus) IsTerminal() bool {
	switch s {
	case SortieCompleted, SortieCancelled, SortieNoShow:
		return true
	case SortieScheduled, SortieDispatched, SortieInFlight:
		return false
	}
	return false
}

// ParseSortieStatus accepts any casing ("in_flight", "IN_FLIGHT").
func ParseSortieStatus(s string) (SortieStatus, error) {
	st := SortieStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown sortie status %q", s)
	}
	return st, nil
}

// Scan implements the sql.Scanner interface
func (s *SortieStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = SortieStatus(v)
	case []byte:
		*s = SortieStatus(v)
	default:
		return fmt.Errorf("SortieStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s SortieStatus) Value() (driver.Value, error) { return string(s), nil }
