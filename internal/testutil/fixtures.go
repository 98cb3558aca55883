package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ruta66/motoclub/internal/domain"
)

var signingKey = []byte("test-signing-key")

// SignToken mints an HS256 token expiring at exp. The session code never
// verifies signatures, so the key only has to be self-consistent.
func SignToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString(signingKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// SignTokenWithoutExpiry mints a token carrying no exp claim.
func SignTokenWithoutExpiry(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
	})
	signed, err := token.SignedString(signingKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// User returns a populated test user.
func User() domain.User {
	return domain.User{
		ID:         42,
		Username:   "rider42",
		Email:      "rider@example.com",
		FirstName:  "Ana",
		LastName:   "Reyes",
		DateJoined: "2024-03-01T12:00:00Z",
	}
}

// Overview returns a dashboard aggregate with one club, one chapter, and one
// membership for the test user.
func Overview() domain.DashboardOverview {
	lat, lon := 19.4326, -99.1332
	return domain.DashboardOverview{
		MyClubs: []domain.Club{
			{ID: 1, Name: "Ruta 66 MC", FoundationDate: "2010-05-01", TotalMembers: 12},
		},
		MyChapters: []domain.Chapter{
			{ID: 7, Name: "Capítulo CDMX", Club: 1, Location: "Ciudad de México", Latitude: &lat, Longitude: &lon},
		},
		MyMemberships: []domain.Member{
			{ID: 3, Chapter: 7, FirstName: "Ana", LastName: "Reyes", Role: "secretary", MemberType: "full"},
		},
		UpcomingEvents: []domain.Event{
			{ID: "e1", Title: "Rodada anual", Date: "2026-10-12"},
		},
		Stats: domain.DashboardStats{TotalClubs: 1, TotalChapters: 1, TotalEvents: 1, TotalMembers: 12},
	}
}

// LoginResponse returns the login payload the backend would send for User.
func LoginResponse(t *testing.T) map[string]any {
	t.Helper()
	return map[string]any{
		"access":  SignToken(t, time.Now().Add(time.Hour)),
		"refresh": SignToken(t, time.Now().Add(24*time.Hour)),
		"user":    User(),
	}
}
