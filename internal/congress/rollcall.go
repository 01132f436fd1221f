package congress

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/openfloor/rollcall/internal/matrix"
)

// Chamber selects which chamber's roll calls to fetch.
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
	ChamberBoth   Chamber = "both"
)

// ParseChamber accepts the short and long forms used by the CLI.
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "house":
		return ChamberHouse, nil
	case "s", "senate":
		return ChamberSenate, nil
	case "", "both":
		return ChamberBoth, nil
	}
	return "", fmt.Errorf("invalid chamber %q (expected house, senate, or both)", s)
}

func (c Chamber) wantHouse() bool  { return c == ChamberHouse || c == ChamberBoth }
func (c Chamber) wantSenate() bool { return c == ChamberSenate || c == ChamberBoth }

// RollCall identifies one recorded vote and its document URL.
type RollCall struct {
	Chamber    string // "House" or "Senate"
	RollNumber int
	URL        string
}

// NoRollCallError reports a bill whose requested chambers have no
// recorded votes. Not necessarily a failure: a bill that has not reached
// the floor still gets an empty matrix column.
type NoRollCallError struct {
	Bill    matrix.BillID
	Chamber Chamber
}

func (e *NoRollCallError) Error() string {
	return fmt.Sprintf("no recorded votes for %s (chamber: %s)", e.Bill, e.Chamber)
}

// LatestRollCalls picks the most recent roll call per requested chamber,
// identified by the highest roll number. Bills routinely have several
// recorded votes (procedural motions, amendments); the final one is the
// authoritative position.
func LatestRollCalls(actions []Action, chamber Chamber) []RollCall {
	var house, senate *RollCall

	for _, act := range actions {
		for _, rv := range act.RecordedVotes {
			rc := RollCall{Chamber: rv.Chamber, RollNumber: rv.RollNumber, URL: rv.URL}
			switch rv.Chamber {
			case "House":
				if house == nil || rc.RollNumber > house.RollNumber {
					house = &rc
				}
			case "Senate":
				if senate == nil || rc.RollNumber > senate.RollNumber {
					senate = &rc
				}
			}
		}
	}

	var rolls []RollCall
	if chamber.wantHouse() && house != nil {
		rolls = append(rolls, *house)
	}
	if chamber.wantSenate() && senate != nil {
		rolls = append(rolls, *senate)
	}
	return rolls
}

// evsDocument is the House Clerk EVS roll-call XML:
//
//	<rollcall-vote><vote-data>
//	  <recorded-vote>
//	    <legislator name-id="A000370" state="NC" party="D">Adams</legislator>
//	    <vote>Yea</vote>
//	  </recorded-vote>
//	...
type evsDocument struct {
	RecordedVotes []struct {
		Legislator struct {
			NameID string `xml:"name-id,attr"`
			State  string `xml:"state,attr"`
			Party  string `xml:"party,attr"`
			Name   string `xml:",chardata"`
		} `xml:"legislator"`
		Vote string `xml:"vote"`
	} `xml:"vote-data>recorded-vote"`
}

func parseHouseRollCall(data []byte, bill matrix.BillID, rollNumber int) ([]matrix.VoteRecord, error) {
	var doc evsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse House roll call %d: %w", rollNumber, err)
	}

	records := make([]matrix.VoteRecord, 0, len(doc.RecordedVotes))
	for _, rv := range doc.RecordedVotes {
		if rv.Legislator.NameID == "" {
			continue // unusable row
		}
		position, err := matrix.ParsePosition(rv.Vote)
		if err != nil {
			return nil, fmt.Errorf("House roll call %d, legislator %s: %w", rollNumber, rv.Legislator.NameID, err)
		}
		records = append(records, matrix.VoteRecord{
			BillID:         bill,
			LegislatorID:   rv.Legislator.NameID,
			LegislatorName: strings.TrimSpace(rv.Legislator.Name),
			State:          rv.Legislator.State,
			Party:          rv.Legislator.Party,
			Chamber:        "House",
			RollNumber:     rollNumber,
			Position:       position,
		})
	}

	return records, nil
}

// lisDocument is the Senate LIS roll-call XML:
//
//	<roll_call_vote><members>
//	  <member>
//	    <member_full>Barrasso (R-WY)</member_full>
//	    <first_name>John</first_name><last_name>Barrasso</last_name>
//	    <party>R</party><state>WY</state>
//	    <vote_cast>Yea</vote_cast>
//	    <lis_member_id>S317</lis_member_id>
//	  </member>
//	...
type lisDocument struct {
	Members []struct {
		MemberFull  string `xml:"member_full"`
		FirstName   string `xml:"first_name"`
		LastName    string `xml:"last_name"`
		Party       string `xml:"party"`
		State       string `xml:"state"`
		VoteCast    string `xml:"vote_cast"`
		LisMemberID string `xml:"lis_member_id"`
	} `xml:"members>member"`
}

func parseSenateRollCall(data []byte, bill matrix.BillID, rollNumber int) ([]matrix.VoteRecord, error) {
	var doc lisDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Senate roll call %d: %w", rollNumber, err)
	}

	records := make([]matrix.VoteRecord, 0, len(doc.Members))
	for _, mem := range doc.Members {
		if mem.LisMemberID == "" {
			continue
		}
		position, err := matrix.ParsePosition(mem.VoteCast)
		if err != nil {
			return nil, fmt.Errorf("Senate roll call %d, member %s: %w", rollNumber, mem.LisMemberID, err)
		}

		name := strings.TrimSpace(mem.MemberFull)
		if name == "" {
			name = strings.TrimSpace(mem.FirstName + " " + mem.LastName)
		}

		records = append(records, matrix.VoteRecord{
			BillID:         bill,
			LegislatorID:   mem.LisMemberID,
			LegislatorName: name,
			State:          mem.State,
			Party:          mem.Party,
			Chamber:        "Senate",
			RollNumber:     rollNumber,
			Position:       position,
		})
	}

	return records, nil
}
