package seeds

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"congregation_backend/internals/seeds/members"
)

// File is the seed document: members first, then activities that may
// reference a leader by email.
type File struct {
	Members    []members.MemberSeed   `yaml:"members"`
	Activities []members.ActivitySeed `yaml:"activities"`
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &f, nil
}

// errDryRun rolls the seed transaction back after every step has run.
var errDryRun = errors.New("dry run")

// RunAllSeeds applies the seed file in one transaction. With dryRun the
// transaction is rolled back once all inserts succeeded.
func RunAllSeeds(db *gorm.DB, path string, dryRun bool) error {
	f, err := Load(path)
	if err != nil {
		return err
	}
	log.Printf("[INFO] seeding from %s: %d members, %d activities", path, len(f.Members), len(f.Activities))

	err = db.Transaction(func(tx *gorm.DB) error {
		byEmail, err := members.SeedMembers(tx, f.Members)
		if err != nil {
			return err
		}
		if err := members.SeedActivities(tx, f.Activities, byEmail); err != nil {
			return err
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		log.Println("[INFO] dry run: changes rolled back")
		return nil
	}
	return err
}
