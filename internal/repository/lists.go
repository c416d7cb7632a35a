// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"weave/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mutateList applies an in-place change to one denormalized id-array column.
// The row is locked for the duration of the read-modify-write, so the push
// or pull is atomic with respect to concurrent mutators. A missing row is
// skipped silently: cascade and cleanup paths must tolerate the referenced
// entity having already been deleted.
func mutateList(ctx context.Context, db *gorm.DB, model interface{}, id uint, column string, mutate func(models.IDList) models.IDList) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct {
			List models.IDList
		}
		err := tx.Model(model).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select(column+" as list").
			Where("id = ?", id).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock %s.%s: %w", tableName(tx, model), column, err)
		}

		updated := mutate(row.List)
		if err := tx.Model(model).Where("id = ?", id).Update(column, updated).Error; err != nil {
			return fmt.Errorf("update %s.%s: %w", tableName(tx, model), column, err)
		}
		return nil
	})
}

func pushListID(ctx context.Context, db *gorm.DB, model interface{}, id uint, column string, value uint) error {
	return mutateList(ctx, db, model, id, column, func(l models.IDList) models.IDList {
		return l.Add(value)
	})
}

func pullListID(ctx context.Context, db *gorm.DB, model interface{}, id uint, column string, value uint) error {
	return mutateList(ctx, db, model, id, column, func(l models.IDList) models.IDList {
		return l.Remove(value)
	})
}

func pullListIDs(ctx context.Context, db *gorm.DB, model interface{}, id uint, column string, values []uint) error {
	if len(values) == 0 {
		return nil
	}
	return mutateList(ctx, db, model, id, column, func(l models.IDList) models.IDList {
		return l.RemoveAll(values)
	})
}

func tableName(db *gorm.DB, model interface{}) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	_ = db
	return "unknown"
}
