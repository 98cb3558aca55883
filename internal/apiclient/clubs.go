package apiclient

import (
	"context"
	"fmt"

	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/events"
)

func (c *Client) ListClubs(ctx context.Context) ([]domain.Club, error) {
	var page domain.Page[domain.Club]
	if err := c.getJSON(ctx, "/api/clubs/", &page, false); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetClub(ctx context.Context, id int64) (*domain.Club, error) {
	var club domain.Club
	if err := c.getJSON(ctx, fmt.Sprintf("/api/clubs/%d/", id), &club, false); err != nil {
		return nil, err
	}
	return &club, nil
}

type ClubInput struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	FoundationDate string `json:"foundation_date"`
	Website        string `json:"website,omitempty"`
}

func (c *Client) CreateClub(ctx context.Context, input ClubInput) (*domain.Club, error) {
	var club domain.Club
	if err := c.postJSON(ctx, "/api/clubs/", input, &club, true); err != nil {
		return nil, err
	}
	c.publish(events.ClubCreated)
	return &club, nil
}

// ListChapters returns the chapters of one club, or of every club when clubID
// is zero (the map page needs the full set).
func (c *Client) ListChapters(ctx context.Context, clubID int64) ([]domain.Chapter, error) {
	path := "/api/chapters/"
	if clubID != 0 {
		path = fmt.Sprintf("/api/chapters/?club=%d", clubID)
	}

	var page domain.Page[domain.Chapter]
	if err := c.getJSON(ctx, path, &page, false); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetChapter(ctx context.Context, id int64) (*domain.Chapter, error) {
	var chapter domain.Chapter
	if err := c.getJSON(ctx, fmt.Sprintf("/api/chapters/%d/", id), &chapter, false); err != nil {
		return nil, err
	}
	return &chapter, nil
}

type ChapterInput struct {
	Club           int64    `json:"club"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	FoundationDate string   `json:"foundation_date"`
	Location       string   `json:"location,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

func (c *Client) CreateChapter(ctx context.Context, input ChapterInput) (*domain.Chapter, error) {
	var chapter domain.Chapter
	if err := c.postJSON(ctx, "/api/chapters/", input, &chapter, true); err != nil {
		return nil, err
	}
	c.publish(events.ChapterCreated)
	return &chapter, nil
}

func (c *Client) ListMembers(ctx context.Context, chapterID int64) ([]domain.Member, error) {
	var page domain.Page[domain.Member]
	if err := c.getJSON(ctx, fmt.Sprintf("/api/members/?chapter=%d", chapterID), &page, false); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	var member domain.Member
	if err := c.getJSON(ctx, fmt.Sprintf("/api/members/%d/", id), &member, false); err != nil {
		return nil, err
	}
	return &member, nil
}

type MemberInput struct {
	Chapter     int64  `json:"chapter"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Nickname    string `json:"nickname,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Role        string `json:"role"`
	MemberType  string `json:"member_type"`
	User        *int64 `json:"user,omitempty"`
}

func (c *Client) CreateMember(ctx context.Context, input MemberInput) (*domain.Member, error) {
	var member domain.Member
	if err := c.postJSON(ctx, "/api/members/", input, &member, true); err != nil {
		return nil, err
	}
	c.publish(events.MemberCreated)
	return &member, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var page domain.Page[domain.Event]
	if err := c.getJSON(ctx, "/api/events/", &page, false); err != nil {
		return nil, err
	}
	return page.Results, nil
}
