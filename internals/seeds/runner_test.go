package seeds

import (
	"os"
	"path/filepath"
	"testing"

	activityModel "congregation_backend/internals/features/activities/activity/model"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	memberModel "congregation_backend/internals/features/members/model"
	"congregation_backend/internals/testsupport"
)

const seedDoc = `
members:
  - fullName: Church Admin
    email: Admin@Example.org
    role: admin
    password: change-me-now
  - fullName: Worship Leader
    email: leader@example.org
    role: Leader
activities:
  - name: Sunday Service
    date: "2026-01-04"
    time: "09:00"
    leaderEmail: leader@example.org
`

func writeSeed(t *testing.T, doc string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return p
}

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := testsupport.OpenDB(t)
	path := writeSeed(t, seedDoc)

	for i := 0; i < 2; i++ {
		if err := RunAllSeeds(db, path, false); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var members, activities, assignments int64
	db.Model(&memberModel.MemberModel{}).Count(&members)
	db.Model(&activityModel.ActivityModel{}).Count(&activities)
	db.Model(&assignmentModel.ActivityAssignmentModel{}).Count(&assignments)
	if members != 2 || activities != 1 || assignments != 1 {
		t.Fatalf("rows = %d members, %d activities, %d assignments; want 2, 1, 1", members, activities, assignments)
	}

	var admin memberModel.MemberModel
	if err := db.Where("member_email = ?", "admin@example.org").Take(&admin).Error; err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
	if admin.MemberRole != "Admin" || !admin.HasPassword() {
		t.Fatalf("admin = role %q, password %v", admin.MemberRole, admin.HasPassword())
	}
}

func TestRunAllSeedsDryRun(t *testing.T) {
	db := testsupport.OpenDB(t)
	if err := RunAllSeeds(db, writeSeed(t, seedDoc), true); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	var n int64
	db.Model(&memberModel.MemberModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("dry run left %d members", n)
	}
}

func TestRunAllSeedsRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown role":   "members:\n  - fullName: X\n    email: x@example.org\n    role: Pastor\n",
		"missing email":  "members:\n  - fullName: X\n",
		"unknown leader": "activities:\n  - name: A\n    date: \"2026-01-04\"\n    leaderEmail: nobody@example.org\n",
		"bad date":       "activities:\n  - name: A\n    date: \"04/01/2026\"\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			db := testsupport.OpenDB(t)
			if err := RunAllSeeds(db, writeSeed(t, doc), false); err == nil {
				t.Fatal("expected an error")
			}
			var n int64
			db.Model(&memberModel.MemberModel{}).Count(&n)
			if n != 0 {
				t.Fatalf("failed seed left %d members", n)
			}
		})
	}
}
