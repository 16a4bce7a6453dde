package startlist

import "github.com/trackops/startline/models"

// Lynx "FL" source file names inside the meet folder.
const (
	lynxEventFile  = "lynx.evt"
	lynxPeopleFile = "lynx.ppl"
)

// lynxImporter walks the comma-delimited Lynx event file. Rows come in
// two shapes: a header row (first field present) carrying event, round
// and heat numbers plus the event name, and athlete rows (first field
// absent) carrying athlete number and lane order. Athlete identity is
// not in the event file at all; it is joined in from the people index.
type lynxImporter struct {
	meetID int
	people PeopleIndex
	sink   *insertSink
}

func (li *lynxImporter) run(rows *RowScanner) {
	// The header most recently seen scopes every athlete row after it.
	var current []string
	for rows.Scan() {
		row := rows.Row()
		switch {
		case field(row, 0) != "":
			current = row
			info := &models.EventInfo{
				MeetID:    li.meetID,
				EventCode: lynxEventCode(current),
				Name:      optString(field(row, 3)),
			}
			// The length column is optional trailing data; it only
			// exists on headers wider than ten columns.
			if len(row) > 9 {
				info.Length = optString(field(row, 9))
			}
			li.sink.putInfo(info)

		case current != nil:
			athleteNum := field(row, 1)
			if athleteNum == "" {
				continue
			}
			laneOrder := field(row, 2)
			if laneOrder == "" {
				// Incomplete assignment, not an error: skip it.
				continue
			}
			person := li.people.Lookup(athleteNum)
			li.sink.putEntry(&models.EventEntry{
				MeetID:      li.meetID,
				EventCode:   lynxEventCode(current),
				AthleteNum:  athleteNum,
				LaneOrder:   laneOrder,
				FirstName:   person.FirstName,
				LastName:    person.LastName,
				AthleteClub: person.Club,
			})
		}
	}
}

func lynxEventCode(header []string) string {
	return FormatEventCode(field(header, 0), field(header, 1), field(header, 2))
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
