package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserViewOmitsToken(t *testing.T) {
	u := &User{ID: 7, Name: "Ann Lee", Username: "annl", PasswordHash: "hash", Token: "tok-123", Status: StatusOnline}

	b, err := json.Marshal(NewUserView(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "tok-123") || strings.Contains(string(b), "hash") {
		t.Errorf("view leaks credentials: %s", b)
	}
}

func TestUserSessionViewCarriesToken(t *testing.T) {
	u := &User{ID: 7, Name: "Ann Lee", Username: "annl", PasswordHash: "hash", Token: "tok-123", Status: StatusOnline}

	b, err := json.Marshal(NewUserSessionView(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["token"] != "tok-123" {
		t.Errorf("expected token in session view, got %v", got["token"])
	}
	if got["username"] != "annl" {
		t.Errorf("expected flattened username, got %v", got["username"])
	}
	if _, ok := got["PasswordHash"]; ok {
		t.Errorf("password hash must not be serialised")
	}
}

func TestNewUserViewsPreservesOrder(t *testing.T) {
	users := []*User{{ID: 2, Username: "b"}, {ID: 1, Username: "a"}}
	views := NewUserViews(users)
	if len(views) != 2 || views[0].ID != 2 || views[1].ID != 1 {
		t.Errorf("unexpected views: %+v", views)
	}
	if len(NewUserViews(nil)) != 0 {
		t.Errorf("expected empty slice for nil input")
	}
}
