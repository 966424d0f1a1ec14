package constants

import (
	"database/sql/driver"
	"fmt"
)

// RiskLevel is the dispatch risk classification attached to a sortie.
type RiskLevel string

const (
	RiskGreen RiskLevel = "GREEN"
	RiskAmber RiskLevel = "AMBER"
	RiskRed   RiskLevel = "RED"
)

func (r RiskLevel) String() string { return string(r) }

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskGreen, RiskAmber, RiskRed:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface
func (r *RiskLevel) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = ""
	case string:
		*r = RiskLevel(v)
	case []byte:
		*r = RiskLevel(v)
	default:
		return fmt.Errorf("RiskLevel: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r RiskLevel) Value() (driver.Value, error) { return string(r), nil }
