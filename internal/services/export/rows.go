// Package export flattens rosters into report rows and writes them as XLSX workbooks
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/cricketreg/internal/model"
)

// Formats used in report cells
const (
	DateFormat      = "02/01/2006"
	TimestampFormat = "02/01/2006 15:04:05"
	NotApplicable   = "N/A"
)

// PartitionAll names the unscoped partition in file and sheet names
const PartitionAll = "all"

// PartitionUnknown names an unrecognized league selection in file and sheet names
const PartitionUnknown = "unknown"

// Row is one flattened player record
type Row []string

var baseHeaders = []string{
	"League",
	"Club Member",
	"Code Number",
	"Player Name",
	"Relationship",
	"Role",
	"DOB",
	"Contact",
	"Batting Style",
	"Bowling Style",
	"Registered At",
}

var availabilityHeaders = []string{
	"Available " + model.FixtureJan10.Format("Jan 2"),
	"Available " + model.FixtureJan11.Format("Jan 2"),
	"Available " + model.FixtureJan18.Format("Jan 2"),
}

// includesAvailability reports whether availability columns belong in a partition's report
func includesAvailability(partition model.League) bool {
	return partition != model.LeagueWomen
}

// Headers returns the column headers for a partition ("" for all leagues)
func Headers(partition model.League) []string {
	headers := append([]string{}, baseHeaders...)
	if includesAvailability(partition) {
		headers = append(headers, availabilityHeaders...)
	}
	return headers
}

// Rows flattens players in order, rendering timestamps in loc
func Rows(players []*model.PlayerRegistration, partition model.League, loc *time.Location) []Row {
	withAvailability := includesAvailability(partition)
	rows := make([]Row, 0, len(players))
	for _, p := range players {
		row := Row{
			p.League.Label(),
			p.RegistrantName,
			strconv.Itoa(p.RegistrantCode),
			p.PlayerName,
			string(p.Relationship),
			string(p.Profile),
			p.DateOfBirth.Format(DateFormat),
			p.ContactNumber,
			orNotApplicable(string(p.BattingStyle)),
			orNotApplicable(string(p.BowlingStyle)),
			p.CreatedAt.In(loc).Format(TimestampFormat),
		}
		if withAvailability {
			row = append(row,
				availabilityCell(p, p.Availability.Jan10),
				availabilityCell(p, p.Availability.Jan11),
				availabilityCell(p, p.Availability.Jan18),
			)
		}
		rows = append(rows, row)
	}
	return rows
}

func orNotApplicable(v string) string {
	if v == "" {
		return NotApplicable
	}
	return v
}

func availabilityCell(p *model.PlayerRegistration, available bool) string {
	if p.League != model.LeagueMen {
		return NotApplicable
	}
	if available {
		return "Yes"
	}
	return "No"
}

// partitionName returns the partition as used in file and sheet names
func partitionName(partition model.League) string {
	switch {
	case partition == "":
		return PartitionAll
	case !partition.Valid():
		// Raw query values may hold characters sheet and file names cannot
		return PartitionUnknown
	default:
		return string(partition)
	}
}

// FileName returns the download name for a partition's report generated at now
func FileName(partition model.League, now time.Time) string {
	return fmt.Sprintf("%s_players_%s.xlsx", partitionName(partition), now.Format(model.DateLayout))
}

// SheetName returns the worksheet name for a partition's report
func SheetName(partition model.League) string {
	return strings.ToUpper(partitionName(partition)) + " Players"
}
