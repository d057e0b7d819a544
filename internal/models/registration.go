package models

import "time"

// DefaultEventName labels registrations that buy a festival pass rather than entering an event.
const DefaultEventName = "General Pass"

// TeamMate is a member listed on a team registration.
type TeamMate struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
}

// Registration is a participant's submission from the public form. IsActive false means the
// payment proof has not been verified yet.
type Registration struct {
	ID                   string            `json:"_id" bson:"-"`
	EventID              string            `json:"eventId" bson:"eventId"`
	EventName            string            `json:"eventName" bson:"eventName"`
	ParticipationType    ParticipationType `json:"participationType" bson:"participationType"`
	Name                 string            `json:"name" bson:"name"`
	Phone                string            `json:"phone" bson:"phone"`
	Email                string            `json:"email" bson:"email"`
	College              string            `json:"college" bson:"college"`
	Department           string            `json:"department" bson:"department"`
	Degree               string            `json:"degree" bson:"degree"`
	Course               string            `json:"course" bson:"course"`
	Year                 string            `json:"year" bson:"year"`
	IDCardURL            string            `json:"idCardUrl,omitempty" bson:"idCardUrl,omitempty"`
	TeamName             string            `json:"teamName,omitempty" bson:"teamName,omitempty"`
	TeamLeaderIDCardURL  string            `json:"teamLeaderIdCardUrl,omitempty" bson:"teamLeaderIdCardUrl,omitempty"`
	TeamMembers          []TeamMate        `json:"teamMembers,omitempty" bson:"teamMembers,omitempty"`
	PaymentScreenshotURL string            `json:"paymentScreenshotUrl" bson:"paymentScreenshotUrl"`
	IsActive             bool              `json:"isActive" bson:"isActive"`
	CreatedAt            time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// DisplayName is the registrant's name, or the team name for team entries without one.
func (r Registration) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.TeamName
}
