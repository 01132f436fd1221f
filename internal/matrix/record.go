package matrix

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a legislator's recorded position on a roll-call vote.
type Position string

// Recognized positions. Raw chamber strings are normalized by
// ParsePosition; anything outside this set is rejected.
const (
	PositionYea       Position = "Yea"
	PositionNay       Position = "Nay"
	PositionPresent   Position = "Present"
	PositionNotVoting Position = "Not Voting"
)

// Valid reports whether p is one of the recognized positions.
func (p Position) Valid() bool {
	switch p {
	case PositionYea, PositionNay, PositionPresent, PositionNotVoting:
		return true
	}
	return false
}

// ParsePosition normalizes a raw vote string from a roll-call document.
// The House uses "Yea"/"Nay" on most votes but "Aye"/"No" on voice-style
// questions; the Senate XML uses "Yea"/"Nay"/"Not Voting".
func ParsePosition(raw string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yea", "aye":
		return PositionYea, nil
	case "nay", "no":
		return PositionNay, nil
	case "present":
		return PositionPresent, nil
	case "not voting", "not_voting", "not-voting":
		return PositionNotVoting, nil
	}
	return "", &InvalidPositionError{Raw: raw}
}

// billTypes are the bill/resolution types congress.gov recognizes.
var billTypes = map[string]bool{
	"hr": true, "s": true,
	"hres": true, "sres": true,
	"hjres": true, "sjres": true,
	"hconres": true, "sconres": true,
}

// BillID identifies a bill as a congress-chamber-number triple,
// e.g. "118:hr:8034".
type BillID struct {
	Congress int
	Type     string
	Number   int
}

// ParseBillID parses a "CONGRESS:TYPE:NUMBER" identifier.
func ParseBillID(s string) (BillID, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return BillID{}, fmt.Errorf("invalid bill id %q (expected CONGRESS:TYPE:NUMBER)", s)
	}

	congress, err := strconv.Atoi(parts[0])
	if err != nil || congress <= 0 {
		return BillID{}, fmt.Errorf("invalid bill id %q: bad congress number %q", s, parts[0])
	}

	billType := strings.ToLower(parts[1])
	if !billTypes[billType] {
		return BillID{}, fmt.Errorf("invalid bill id %q: unknown bill type %q", s, parts[1])
	}

	number, err := strconv.Atoi(parts[2])
	if err != nil || number <= 0 {
		return BillID{}, fmt.Errorf("invalid bill id %q: bad bill number %q", s, parts[2])
	}

	return BillID{Congress: congress, Type: billType, Number: number}, nil
}

// Validate checks that the id has the expected shape.
func (b BillID) Validate() error {
	if b.Congress <= 0 || b.Number <= 0 || !billTypes[b.Type] {
		return fmt.Errorf("invalid bill id %q", b.String())
	}
	return nil
}

// IsZero reports whether the id is unset.
func (b BillID) IsZero() bool {
	return b == BillID{}
}

// String returns the canonical "congress:type:number" form used as the
// storage key.
func (b BillID) String() string {
	return fmt.Sprintf("%d:%s:%d", b.Congress, b.Type, b.Number)
}

// Label returns the human-readable column label, e.g. "HR.8034".
func (b BillID) Label() string {
	return fmt.Sprintf("%s.%d", strings.ToUpper(b.Type), b.Number)
}

// VoteRecord is one legislator's recorded position on one roll-call vote.
type VoteRecord struct {
	BillID         BillID   `json:"billId"`
	LegislatorID   string   `json:"legislatorId"`
	LegislatorName string   `json:"legislatorName"`
	State          string   `json:"state,omitempty"`
	Party          string   `json:"party,omitempty"`
	Chamber        string   `json:"chamber,omitempty"` // "House" or "Senate"
	RollNumber     int      `json:"rollNumber,omitempty"`
	Position       Position `json:"position"`
}
