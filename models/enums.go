package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type SupplierStatus string

const (
	SupplierStatusPending  SupplierStatus = "pending"
	SupplierStatusComplete SupplierStatus = "complete"
	SupplierStatusOverdue  SupplierStatus = "overdue"
)

type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

type TargetStatus string

const (
	TargetStatusActive   TargetStatus = "active"
	TargetStatusAchieved TargetStatus = "achieved"
	TargetStatusAtRisk   TargetStatus = "at_risk"
	TargetStatusMissed   TargetStatus = "missed"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

type ActivityStatus string

const (
	ActivityStatusPending    ActivityStatus = "pending"
	ActivityStatusInProgress ActivityStatus = "in_progress"
	ActivityStatusCompleted  ActivityStatus = "completed"
)

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusInactive    AssetStatus = "inactive"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

type StandardType string

const (
	StandardTypeStandard   StandardType = "standard"
	StandardTypeFramework  StandardType = "framework"
	StandardTypeAssessment StandardType = "assessment"
)

// DateString is a date-only value stored as a timestamp and rendered
// as "2006-01-02" in JSON. Date filters compare against the underlying
// time so range queries stay portable across drivers.
type DateString time.Time

const dateStringLayout = "2006-01-02"

func (t DateString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).Format(dateStringLayout))), nil
}

func (t *DateString) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("date must be a string")
	}
	parsed, err := time.Parse(dateStringLayout, str)
	if err != nil {
		// fall back to full timestamps sent by older clients
		parsed, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return errors.New("error parsing date, expected YYYY-MM-DD")
		}
	}
	*t = DateString(parsed)
	return nil
}

// Value implements the driver.Valuer interface
func (t DateString) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements the sql.Scanner interface
func (t *DateString) Scan(value interface{}) error {
	if value == nil {
		*t = DateString(time.Time{})
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = DateString(v)
	case string:
		parsed, err := time.Parse(dateStringLayout, v)
		if err != nil {
			return fmt.Errorf("cannot parse %q as DateString", v)
		}
		*t = DateString(parsed)
	default:
		return fmt.Errorf("cannot convert %T to DateString", value)
	}
	return nil
}

func (t DateString) Time() time.Time {
	return time.Time(t)
}

// StringArray stores a []string as a JSON text column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	return scanJSONColumn(value, a)
}

// IntArray stores a []int as a JSON text column.
type IntArray []int

func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *IntArray) Scan(value interface{}) error {
	return scanJSONColumn(value, a)
}

// PermissionMatrix maps module name to allowed actions,
// e.g. {"measurements": {"read": true, "write": false}}.
type PermissionMatrix map[string]map[string]bool

func (p PermissionMatrix) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PermissionMatrix) Scan(value interface{}) error {
	return scanJSONColumn(value, p)
}

// Allows reports whether the matrix grants an action on a module.
func (p PermissionMatrix) Allows(module string, action string) bool {
	if p == nil {
		return false
	}
	actions, ok := p[module]
	if !ok {
		return false
	}
	return actions[action]
}

func scanJSONColumn(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot convert %T to JSON column", value)
	}
}
