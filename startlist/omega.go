package startlist

import "github.com/trackops/startline/models"

// omegaFile is the fixed name both OMEGA variants read from the meet
// folder, and the name the HYTEK interface copy stages into it.
const omegaFile = "startlist.csv"

// omegaImporter walks the semicolon-delimited OMEGA / HYTEK start list.
// Unlike Lynx the athlete identity travels inline on each athlete row,
// so no companion people file is involved, and the event code arrives
// pre-built in the header's first field rather than being synthesized.
type omegaImporter struct {
	meetID int
	sink   *insertSink
}

func (oi *omegaImporter) run(rows *RowScanner) {
	var current []string
	for rows.Scan() {
		row := rows.Row()
		switch {
		case field(row, 0) != "":
			current = row
			oi.sink.putInfo(&models.EventInfo{
				MeetID:    oi.meetID,
				EventCode: field(row, 0),
				Date:      optString(field(row, 1)),
				Time:      optString(field(row, 2)),
				Length:    optString(field(row, 8)),
				Name:      optString(field(row, 9)),
				Title2:    optString(field(row, 10)),
				Sponsor:   optString(field(row, 11)),
			})

		case current != nil && len(row) > 1:
			laneOrder := field(row, 3)
			athleteNum := field(row, 4)
			if athleteNum == "" || laneOrder == "" {
				continue
			}
			oi.sink.putEntry(&models.EventEntry{
				MeetID:      oi.meetID,
				EventCode:   field(current, 0),
				AthleteNum:  athleteNum,
				LaneOrder:   laneOrder,
				LastName:    field(row, 5),
				FirstName:   field(row, 6),
				AthleteClub: field(row, 7),
			})
		}
	}
}
