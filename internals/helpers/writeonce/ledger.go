// Package writeonce implements the write-once-then-seal primitive shared by
// attendance first-saves and contribution events.
//
// A key (an activity, a contribution event) is sealed by inserting a row in
// write_once_seals. The (scope, key) primary key serializes concurrent
// commits at the storage layer: the loser of a race gets a unique violation
// inside its own transaction and rolls back everything it wrote.
package writeonce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	helper "congregation_backend/internals/helpers"
)

var ErrAlreadySealed = errors.New("writeonce: key already sealed")

type Seal struct {
	SealScope    string     `gorm:"size:32;primaryKey;column:seal_scope" json:"scope"`
	SealKey      uuid.UUID  `gorm:"type:uuid;primaryKey;column:seal_key" json:"key"`
	SealSealedBy *uuid.UUID `gorm:"type:uuid;column:seal_sealed_by" json:"sealedBy,omitempty"`
	SealSealedAt time.Time  `gorm:"not null;column:seal_sealed_at" json:"sealedAt"`
}

func (Seal) TableName() string { return "write_once_seals" }

// Guard runs inside the commit transaction before the seal is written.
// Returning an error aborts the commit and is returned unchanged.
type Guard func(tx *gorm.DB) error

type Ledger[T any] struct {
	DB    *gorm.DB
	Scope string

	// Conflict, when set, turns the row insert into an upsert.
	Conflict *clause.OnConflict

	BatchSize int
}

func New[T any](db *gorm.DB, scope string) *Ledger[T] {
	return &Ledger[T]{DB: db, Scope: scope, BatchSize: 200}
}

// Commit seals key and inserts rows in one transaction. It returns the number
// of rows written, or ErrAlreadySealed if key was sealed before.
func (l *Ledger[T]) Commit(ctx context.Context, key uuid.UUID, by *uuid.UUID, at time.Time, rows []T, guards ...Guard) (int, error) {
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, g := range guards {
			if err := g(tx); err != nil {
				return err
			}
		}

		seal := Seal{SealScope: l.Scope, SealKey: key, SealSealedBy: by, SealSealedAt: at}
		if err := tx.Create(&seal).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrAlreadySealed
			}
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		q := tx
		if l.Conflict != nil {
			q = q.Clauses(*l.Conflict)
		}
		return q.CreateInBatches(rows, l.batchSize()).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Sealed reports whether key is sealed. Pass a transaction handle to read
// inside an ongoing transaction.
func (l *Ledger[T]) Sealed(db *gorm.DB, key uuid.UUID) (bool, error) {
	var n int64
	err := db.Model(&Seal{}).
		Where("seal_scope = ? AND seal_key = ?", l.Scope, key).
		Count(&n).Error
	return n > 0, err
}

// SealedAt returns the seal row, or nil when key is open.
func (l *Ledger[T]) SealedAt(db *gorm.DB, key uuid.UUID) (*Seal, error) {
	var s Seal
	err := db.Where("seal_scope = ? AND seal_key = ?", l.Scope, key).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Forget removes the seal. Only used when the sealed parent itself is deleted.
func (l *Ledger[T]) Forget(tx *gorm.DB, key uuid.UUID) error {
	return tx.Where("seal_scope = ? AND seal_key = ?", l.Scope, key).Delete(&Seal{}).Error
}

func (l *Ledger[T]) batchSize() int {
	if l.BatchSize <= 0 {
		return 200
	}
	return l.BatchSize
}
