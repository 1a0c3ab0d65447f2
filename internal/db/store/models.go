package store

import (
	"database/sql"
	"time"
)

type Team struct {
	ID           int64          `json:"id"`
	Division     string         `json:"division"`
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	ContactEmail sql.NullString `json:"contactEmail"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type Field struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AvailabilityRule stores weekdays as a comma-separated list of integers,
// 0 for Sunday through 6 for Saturday.
type AvailabilityRule struct {
	ID         int64  `json:"id"`
	FieldKey   string `json:"fieldKey"`
	Division   string `json:"division"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Weekdays   string `json:"weekdays"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Recurrence string `json:"recurrence"`
}

// AvailabilityException with null times blocks the whole day.
type AvailabilityException struct {
	ID        int64          `json:"id"`
	RuleID    int64          `json:"ruleId"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	StartTime sql.NullString `json:"startTime"`
	EndTime   sql.NullString `json:"endTime"`
}

type BlackoutDate struct {
	ID        int64          `json:"id"`
	Division  sql.NullString `json:"division"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Reason    sql.NullString `json:"reason"`
}

type Slot struct {
	ID             int64          `json:"id"`
	Division       string         `json:"division"`
	FieldKey       string         `json:"fieldKey"`
	GameDate       string         `json:"gameDate"`
	StartTime      string         `json:"startTime"`
	EndTime        string         `json:"endTime"`
	OfferingTeamID sql.NullInt64  `json:"offeringTeamId"`
	GameType       string         `json:"gameType"`
	Status         string         `json:"status"`
	Notes          sql.NullString `json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type Game struct {
	ID           int64          `json:"id"`
	SlotID       sql.NullInt64  `json:"slotId"`
	Division     string         `json:"division"`
	GameDate     string         `json:"gameDate"`
	StartTime    string         `json:"startTime"`
	EndTime      string         `json:"endTime"`
	FieldKey     string         `json:"fieldKey"`
	HomeTeamCode string         `json:"homeTeamCode"`
	AwayTeamCode sql.NullString `json:"awayTeamCode"`
	IsExternal   bool           `json:"isExternal"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type SwapRequest struct {
	ID               int64          `json:"id"`
	SlotID           int64          `json:"slotId"`
	RequestingTeamID int64          `json:"requestingTeamId"`
	OfferingTeamID   int64          `json:"offeringTeamId"`
	Status           string         `json:"status"`
	Message          sql.NullString `json:"message"`
	CreatedAt        time.Time      `json:"createdAt"`
	ResolvedAt       sql.NullTime   `json:"resolvedAt"`
}
