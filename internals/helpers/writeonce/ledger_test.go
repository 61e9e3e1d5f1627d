package writeonce_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"congregation_backend/internals/helpers/writeonce"
)

type tally struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Batch uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_tally,priority:1"`
	Who   string    `gorm:"uniqueIndex:uq_tally,priority:2"`
	N     int
}

func (t *tally) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&writeonce.Seal{}, &tally{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func count(t *testing.T, db *gorm.DB, batch uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&tally{}).Where("batch = ?", batch).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCommitSealsOnce(t *testing.T) {
	db := openDB(t)
	l := writeonce.New[tally](db, "tally")
	ctx := context.Background()
	key := uuid.New()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	n, err := l.Commit(ctx, key, nil, now, []tally{{Batch: key, Who: "a", N: 1}, {Batch: key, Who: "b", N: 2}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}

	_, err = l.Commit(ctx, key, nil, now, []tally{{Batch: key, Who: "c", N: 3}})
	if !errors.Is(err, writeonce.ErrAlreadySealed) {
		t.Fatalf("second commit error = %v, want %v", err, writeonce.ErrAlreadySealed)
	}
	if got := count(t, db, key); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}

	sealed, err := l.Sealed(db, key)
	if err != nil || !sealed {
		t.Fatalf("Sealed = %v, %v", sealed, err)
	}
	seal, err := l.SealedAt(db, key)
	if err != nil || seal == nil || !seal.SealSealedAt.Equal(now) {
		t.Fatalf("SealedAt = %+v, %v", seal, err)
	}
}

func TestScopesAreIndependent(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	key := uuid.New()

	if _, err := writeonce.New[tally](db, "one").Commit(ctx, key, nil, time.Now(), nil); err != nil {
		t.Fatalf("scope one: %v", err)
	}
	if _, err := writeonce.New[tally](db, "two").Commit(ctx, key, nil, time.Now(), nil); err != nil {
		t.Fatalf("scope two: %v", err)
	}
}

func TestGuardAbortsCommit(t *testing.T) {
	db := openDB(t)
	l := writeonce.New[tally](db, "tally")
	key := uuid.New()
	stop := errors.New("stop")

	_, err := l.Commit(context.Background(), key, nil, time.Now(), []tally{{Batch: key, Who: "a"}},
		func(tx *gorm.DB) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("error = %v, want guard error", err)
	}
	if sealed, _ := l.Sealed(db, key); sealed {
		t.Fatal("guard failure left a seal")
	}
	if got := count(t, db, key); got != 0 {
		t.Fatalf("rows = %d, want 0", got)
	}
}

func TestFailedInsertRollsBackSeal(t *testing.T) {
	db := openDB(t)
	l := writeonce.New[tally](db, "tally")
	key := uuid.New()

	// duplicate (batch, who) inside one commit
	_, err := l.Commit(context.Background(), key, nil, time.Now(), []tally{{Batch: key, Who: "a"}, {Batch: key, Who: "a"}})
	if err == nil {
		t.Fatal("duplicate rows committed")
	}
	if sealed, _ := l.Sealed(db, key); sealed {
		t.Fatal("failed insert left a seal")
	}
}

func TestConflictUpsert(t *testing.T) {
	db := openDB(t)
	key := uuid.New()
	if err := db.Create(&tally{Batch: key, Who: "a", N: 1}).Error; err != nil {
		t.Fatalf("draft row: %v", err)
	}

	l := writeonce.New[tally](db, "tally")
	l.Conflict = &clause.OnConflict{
		Columns:   []clause.Column{{Name: "batch"}, {Name: "who"}},
		DoUpdates: clause.AssignmentColumns([]string{"n"}),
	}
	if _, err := l.Commit(context.Background(), key, nil, time.Now(), []tally{{Batch: key, Who: "a", N: 5}}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	var got tally
	if err := db.Where("batch = ? AND who = ?", key, "a").Take(&got).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.N != 5 {
		t.Fatalf("n = %d, want 5", got.N)
	}
}

func TestConcurrentCommitsHaveOneWinner(t *testing.T) {
	db := openDB(t)
	l := writeonce.New[tally](db, "tally")
	key := uuid.New()

	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = l.Commit(context.Background(), key, nil, time.Now(), []tally{{Batch: key, Who: "a"}})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, writeonce.ErrAlreadySealed) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want 1", wins)
	}
}

func TestForget(t *testing.T) {
	db := openDB(t)
	l := writeonce.New[tally](db, "tally")
	key := uuid.New()
	if _, err := l.Commit(context.Background(), key, nil, time.Now(), nil); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := l.Forget(db, key); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if seal, _ := l.SealedAt(db, key); seal != nil {
		t.Fatal("seal still present")
	}
}
