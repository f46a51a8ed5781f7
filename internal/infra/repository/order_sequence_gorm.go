package repository

import (
	"context"

	"gorm.io/gorm"
)

type OrderSequenceGormRepository struct {
	db *gorm.DB
}

func NewOrderSequenceGormRepository(db *gorm.DB) *OrderSequenceGormRepository {
	return &OrderSequenceGormRepository{db: db}
}

// 日毎の連番をアトミックに払い出す。
// 当日分を数える方式は同時チェックアウトで重複するので、UPSERTのRETURNINGで取る。
func (r *OrderSequenceGormRepository) Next(ctx context.Context, day string) (int64, error) {
	var seq int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_day_sequences (day, last_seq)
		VALUES (?, 1)
		ON CONFLICT (day)
		DO UPDATE SET last_seq = order_day_sequences.last_seq + 1
		RETURNING last_seq`, day).
		Scan(&seq).Error

	if err != nil {
		return 0, err
	}
	return seq, nil
}
