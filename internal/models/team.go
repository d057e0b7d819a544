package models

// Team roster categories shown on the public team page.
const (
	CategoryFacultyCoordinators = "Faculty Coordinators"
	CategoryStudentCoordinators = "Student Coordinators"
	CategoryClubMembers         = "Vistara Club Members"
	CategoryVolunteers          = "Volunteers"
)

// TeamMember is one person on the festival roster. ID is the server identity; LocalID is
// an identity carried by older clients and documents. Order is the display position.
type TeamMember struct {
	ID          string      `json:"_id,omitempty" bson:"-"`
	LocalID     string      `json:"id,omitempty" bson:"id,omitempty"`
	Name        string      `json:"name" bson:"name"`
	Role        string      `json:"role" bson:"role"`
	Category    string      `json:"category" bson:"category"`
	SubCategory string      `json:"subCategory,omitempty" bson:"subCategory,omitempty"`
	Image       *MediaAsset `json:"image" bson:"image"`
	Instagram   string      `json:"instagram" bson:"instagram"`
	LinkedIn    string      `json:"linkedin" bson:"linkedin"`
	IsActive    bool        `json:"isActive" bson:"isActive"`
	Order       int         `json:"order" bson:"order"`
}

// Identity returns the identity used to match a member for edit and delete:
// the server ID when present, otherwise the local one.
func (m TeamMember) Identity() (string, bool) {
	if m.ID != "" {
		return m.ID, true
	}
	if m.LocalID != "" {
		return m.LocalID, true
	}
	return "", false
}

// Clone returns a deep copy of the member.
func (m TeamMember) Clone() TeamMember {
	c := m
	if m.Image != nil {
		img := *m.Image
		c.Image = &img
	}
	return c
}
