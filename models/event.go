package models

// CheckInStatus is the recorded state of an athlete at the start line.
// An entry with no recorded state has a nil StartPos.
type CheckInStatus string

const (
	CheckInPresent      CheckInStatus = "Y"
	CheckInDidNotStart  CheckInStatus = "DNS"
	CheckInDidNotFinish CheckInStatus = "DNF"
	CheckInDisqualified CheckInStatus = "DQ"
)

// ValidCheckInStatus reports whether s is a recordable check-in state.
func ValidCheckInStatus(s CheckInStatus) bool {
	switch s {
	case CheckInPresent, CheckInDidNotStart, CheckInDidNotFinish, CheckInDisqualified:
		return true
	}
	return false
}

// EventInfo is the descriptive metadata for one event at one meet,
// keyed by (meet_id, event_code). Created by the import pipeline,
// comments and timing metadata are edited afterwards by judges.
type EventInfo struct {
	ID        int     `json:"id" db:"id"`
	MeetID    int     `json:"meet_id" db:"meet_id"`
	EventCode string  `json:"event_code" db:"event_code"`
	Length    *string `json:"length,omitempty" db:"length"`
	Name      *string `json:"name,omitempty" db:"name"`
	Date      *string `json:"date,omitempty" db:"event_date"`
	Time      *string `json:"time,omitempty" db:"event_time"`
	Title2    *string `json:"title2,omitempty" db:"title2"`
	Sponsor   *string `json:"sponsor,omitempty" db:"sponsor"`
	Comments  *string `json:"comments,omitempty" db:"comments"`
}

// EventEntry is one athlete's participation record within one event at
// one meet, keyed by (meet_id, event_code, athlete_num). The lane order
// and identity fields come from the imported start list; every other
// field is race state recorded by volunteers after the fact.
type EventEntry struct {
	ID          int            `json:"id" db:"id"`
	MeetID      int            `json:"meet_id" db:"meet_id"`
	EventCode   string         `json:"event_code" db:"event_code"`
	AthleteNum  string         `json:"athlete_num" db:"athlete_num"`
	LaneOrder   string         `json:"lane_order" db:"lane_order"`
	FirstName   string         `json:"first_name" db:"first_name"`
	LastName    string         `json:"last_name" db:"last_name"`
	AthleteClub string         `json:"athlete_club" db:"athlete_club"`
	StartPos    *CheckInStatus `json:"start_pos,omitempty" db:"start_pos"`
	StartTime   *string        `json:"start_time,omitempty" db:"start_time"`
	FinishRank  *int           `json:"finish_rank,omitempty" db:"finish_rank"`
	FinishTime  *string        `json:"finish_time,omitempty" db:"finish_time"`
	PhotoRank   *int           `json:"photo_rank,omitempty" db:"photo_rank"`
	PhotoTime   *string        `json:"photo_time,omitempty" db:"photo_time"`
}
