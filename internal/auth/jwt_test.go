package auth

import (
	"context"
	"testing"
	"time"

	"volunteerManagement/internal/testutil"
	"volunteerManagement/models"
)

const testSecret = "test-secret"

func TestIssueToken_RoundTrip(t *testing.T) {
	u := &models.User{ID: 7, Username: "alice", IsStaff: true}
	tok, err := IssueToken(testSecret, u, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := ParseHeader("Token "+tok, testSecret)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if p.UserID != 7 || p.Name != "alice" || p.Kind != models.RoleAdmin {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestIssueToken_Expired(t *testing.T) {
	tok, err := IssueToken(testSecret, &models.User{ID: 1, Username: "bob"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseHeader("Bearer "+tok, testSecret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseHeader_Schemes(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 3, "carol", "volunteer")
	for _, h := range []string{"Bearer " + tok, "bearer " + tok, "Token " + tok} {
		p, err := ParseHeader(h, testSecret)
		if err != nil {
			t.Fatalf("ParseHeader(%q): %v", h[:6], err)
		}
		if p.UserID != 3 || p.Kind != models.RoleVolunteer {
			t.Fatalf("principal mismatch: %+v", p)
		}
	}
	for _, h := range []string{"", tok, "Basic " + tok, "Bearer"} {
		if _, err := ParseHeader(h, testSecret); err == nil {
			t.Fatalf("expected error for header %q", h)
		}
	}
}

func TestParseFromMD_ValidBearer(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 1, "alice", "volunteer")
	ctx := testutil.CtxWithToken(context.Background(), tok)
	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.Name != "alice" || p.Kind != "volunteer" {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromMD_MissingHeader(t *testing.T) {
	_, err := ParseFromMD(context.Background(), testSecret)
	if err == nil {
		t.Fatalf("expected error for missing metadata")
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 1, "bob", "volunteer")
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 0, "", "")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
	tok = testutil.GenerateJWTHS256(t, testSecret, 1, "eve", "superuser")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected unknown kind to be rejected")
	}
}
