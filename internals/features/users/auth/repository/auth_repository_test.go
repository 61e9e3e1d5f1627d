package repository_test

import (
	"testing"
	"time"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/users/auth/repository"
	"congregation_backend/internals/testsupport"
)

func TestBlacklistStoresDigest(t *testing.T) {
	db := testsupport.OpenDB(t)
	raw := "header.payload.signature"

	if err := repository.BlacklistToken(db, raw, "s", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := repository.BlacklistToken(db, raw, "s", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("blacklist twice: %v", err)
	}

	black, err := repository.IsBlacklisted(db, raw, "s")
	if err != nil || !black {
		t.Fatalf("IsBlacklisted = %v, %v", black, err)
	}
	if black, _ := repository.IsBlacklisted(db, "another.token.value", "s"); black {
		t.Fatal("unrelated token is blacklisted")
	}

	var stored string
	if err := db.Raw("SELECT blacklist_digest FROM token_blacklist").Scan(&stored).Error; err != nil {
		t.Fatalf("select: %v", err)
	}
	if stored == raw || stored != repository.TokenDigest(raw, "s") {
		t.Fatalf("stored token = %q", stored)
	}
}

func TestFindMemberByIdentifier(t *testing.T) {
	db := testsupport.OpenDB(t)
	m := testsupport.CreateMemberWithLogin(t, db, "Leader", "leader@example.org", "secret-pass", constants.RoleLeader)

	got, err := repository.FindMemberByIdentifier(db, "  Leader@Example.org ")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.MemberID != m.MemberID {
		t.Fatalf("found %s, want %s", got.MemberID, m.MemberID)
	}
	if _, err := repository.FindMemberByIdentifier(db, "nobody@example.org"); err == nil {
		t.Fatal("unknown identifier matched")
	}
}
