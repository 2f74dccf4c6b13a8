package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const maxListLimit = 200

// CallLogRepo 封装对 api_calls 表的操作
type CallLogRepo struct {
	db *gorm.DB
}

func NewCallLogRepo(db *gorm.DB) *CallLogRepo {
	return &CallLogRepo{db: db}
}

func (r *CallLogRepo) Create(ctx context.Context, call *APICall) error {
	return r.db.WithContext(ctx).Create(call).Error
}

// Latest 最近一次调用，service 为空时不限服务；没有记录返回 nil, nil
func (r *CallLogRepo) Latest(ctx context.Context, service string) (*APICall, error) {
	var call APICall
	tx := r.db.WithContext(ctx)
	if service != "" {
		tx = tx.Where("service = ?", service)
	}
	err := tx.Order("started_at DESC").First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// List 按时间倒序列出调用记录
func (r *CallLogRepo) List(ctx context.Context, service string, limit int) ([]APICall, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	var calls []APICall
	tx := r.db.WithContext(ctx)
	if service != "" {
		tx = tx.Where("service = ?", service)
	}
	err := tx.Order("started_at DESC").Limit(limit).Find(&calls).Error
	return calls, err
}

// PruneBefore 删除 before 之前的记录，返回删除行数
func (r *CallLogRepo) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("started_at < ?", before).
		Delete(&APICall{})
	return result.RowsAffected, result.Error
}
