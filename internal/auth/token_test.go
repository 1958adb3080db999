package auth

import (
	"testing"
	"time"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("segredo-de-teste", 30*time.Minute)
	user := &domain.User{ID: "u-1", Login: "maria", Role: domain.RoleAdmin}

	token, expiresAt, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) > 30*time.Minute || time.Until(expiresAt) < 29*time.Minute {
		t.Errorf("expiry out of range: %v", expiresAt)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "u-1" || claims.Login != "maria" || claims.Role != domain.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("segredo-a", time.Hour).GenerateToken(&domain.User{ID: "u-1"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("segredo-b", time.Hour).ParseToken(token); err == nil {
		t.Error("token signed with another secret must not parse")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("segredo", time.Hour)
	if _, err := tm.ParseToken("nao-e-um-jwt"); err == nil {
		t.Error("garbage token must not parse")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("senha-forte", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "senha-forte"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := ComparePassword(hash, "senha-errada"); err == nil {
		t.Error("wrong password accepted")
	}
}
