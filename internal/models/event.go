package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ErrNotFound is returned by stores when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no slots left.
var ErrEventFull = errors.New("event is full")

// ParticipationType is how an event is entered.
type ParticipationType string

const (
	ParticipationSolo ParticipationType = "Solo"
	ParticipationTeam ParticipationType = "Team"
)

// Ticket tiers sold for pass events.
const (
	TierDiamond = "diamond"
	TierGold    = "gold"
	TierSilver  = "silver"
)

// DefaultMaxSlots applies to events stored without a capacity.
const DefaultMaxSlots = 100

// DefaultMaxTeamSize applies to team events without a parsable team size.
const DefaultMaxTeamSize = 4

// Event is a festival event as shown on the public site and edited from the admin panel.
// ID is assigned by the admin client when the event is created and never changes.
type Event struct {
	ID                string            `json:"id" bson:"id"`
	Title             string            `json:"title" bson:"title"`
	Date              string            `json:"date" bson:"date"`
	Time              string            `json:"time" bson:"time"`
	Description       string            `json:"description" bson:"description"`
	Image             *MediaAsset       `json:"image" bson:"image"`
	Category          string            `json:"category" bson:"category"`
	ParticipationType ParticipationType `json:"participationType" bson:"participationType"`
	TeamSize          string            `json:"teamSize" bson:"teamSize"`
	CoordinatorPhone  string            `json:"coordinatorPhone" bson:"coordinatorPhone"`
	IsPassEvent       *bool             `json:"isPassEvent,omitempty" bson:"isPassEvent,omitempty"`
	TicketTiers       []string          `json:"ticketTiers" bson:"ticketTiers"`
	EntryFee          Fee               `json:"entryFee" bson:"entryFee"`
	Rules             []string          `json:"rules" bson:"rules"`
	MaxSlots          int               `json:"maxSlots" bson:"maxSlots"`
	RegisteredCount   int               `json:"registeredCount" bson:"registeredCount"`
}

// PassEvent reports whether admission is by ticket tier. Events stored before the flag
// existed were all pass events.
func (e Event) PassEvent() bool {
	if e.IsPassEvent == nil {
		return true
	}
	return *e.IsPassEvent
}

// Capacity returns MaxSlots, or DefaultMaxSlots when unset.
func (e Event) Capacity() int {
	if e.MaxSlots <= 0 {
		return DefaultMaxSlots
	}
	return e.MaxSlots
}

// MaxTeamSize is the largest team the event accepts.
func (e Event) MaxTeamSize() int {
	if e.ParticipationType != ParticipationTeam {
		return 1
	}
	_, hi, err := ParseTeamSize(e.TeamSize)
	if err != nil {
		return DefaultMaxTeamSize
	}
	return hi
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	c := e
	if e.Image != nil {
		img := *e.Image
		c.Image = &img
	}
	if e.IsPassEvent != nil {
		v := *e.IsPassEvent
		c.IsPassEvent = &v
	}
	if e.TicketTiers != nil {
		c.TicketTiers = append([]string{}, e.TicketTiers...)
	}
	if e.Rules != nil {
		c.Rules = append([]string{}, e.Rules...)
	}
	return c
}

// ParseTeamSize reads a fixed size ("5") or an inclusive range ("3-12").
func ParseTeamSize(s string) (lo, hi int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("team size is empty")
	}
	first, second, isRange := strings.Cut(s, "-")
	lo, err = strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, fmt.Errorf("team size %q: %w", s, err)
	}
	hi = lo
	if isRange {
		hi, err = strconv.Atoi(strings.TrimSpace(second))
		if err != nil {
			return 0, 0, fmt.Errorf("team size %q: %w", s, err)
		}
	}
	if lo < 1 || hi < lo {
		return 0, 0, fmt.Errorf("team size %q: invalid bounds", s)
	}
	return lo, hi, nil
}

// Fee is an entry fee. The admin panel writes free text ("₹100 + GST") while seeded documents
// carry plain numbers, so both decode into the same string form.
type Fee string

func (f *Fee) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Fee(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entry fee: %w", err)
	}
	*f = Fee(n.String())
	return nil
}

func (f Fee) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(f))
}

func (f *Fee) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*f = Fee(raw.StringValue())
	case bsontype.Double:
		*f = Fee(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Int32:
		*f = Fee(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*f = Fee(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Null, bsontype.Undefined:
		*f = ""
	default:
		return fmt.Errorf("entry fee: unsupported bson type %s", t)
	}
	return nil
}
