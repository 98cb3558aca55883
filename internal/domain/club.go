package domain

// Club is a motorcycle club as served by the backend. Timestamps and dates are
// kept as the backend's string representations; the client never does date math
// on them.
type Club struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	FoundationDate string  `json:"foundation_date"`
	Logo           *string `json:"logo,omitempty"`
	Website        string  `json:"website,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	TotalMembers   int     `json:"total_members"`
}

// Chapter is a local subdivision of a club. Latitude and longitude are optional;
// chapters without valid coordinates are excluded from the map.
type Chapter struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	FoundationDate string   `json:"foundation_date"`
	Club           int64    `json:"club"`
	Location       string   `json:"location,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	TotalMembers   int      `json:"total_members"`
}

// Member links a person to a chapter with a role. The optional User field
// references the platform account the member is linked to, if any.
type Member struct {
	ID             int64           `json:"id"`
	Chapter        int64           `json:"chapter"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Nickname       string          `json:"nickname,omitempty"`
	DateOfBirth    string          `json:"date_of_birth,omitempty"`
	Role           string          `json:"role"`
	MemberType     string          `json:"member_type"`
	NationalRole   string          `json:"national_role,omitempty"`
	ProfilePicture string          `json:"profile_picture,omitempty"`
	JoinedAt       string          `json:"joined_at,omitempty"`
	User           *int64          `json:"user,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
	Metadata       *MemberMetadata `json:"metadata,omitempty"`
}

// MemberMetadata carries backend-asserted extras. LinkedTo groups several member
// records under one primary record; the backend is responsible for keeping the
// grouping acyclic.
type MemberMetadata struct {
	IsVested *bool  `json:"is_vested,omitempty"`
	LinkedTo *int64 `json:"linked_to,omitempty"`
}

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
	ClubID      string `json:"clubId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
