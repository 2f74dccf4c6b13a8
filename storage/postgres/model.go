package postgres

import (
	"time"

	"lexassist/types"
)

// APICall 对应 api_calls 表，记录对生成 / 翻译服务的每次调用
type APICall struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Service    string    `gorm:"column:service;type:varchar(32);index"`
	Endpoint   string    `gorm:"column:endpoint;type:varchar(512)"`
	Request    string    `gorm:"column:request;type:text"`
	Response   string    `gorm:"column:response;type:text"`
	StatusCode int       `gorm:"column:status_code"`
	Error      string    `gorm:"column:error;type:text"`
	DurationMs int64     `gorm:"column:duration_ms"`
	StartedAt  time.Time `gorm:"column:started_at;index"`

	CreatedAt time.Time
}

func (APICall) TableName() string {
	return "api_calls"
}

func FromRecord(rec types.CallRecord) *APICall {
	return &APICall{
		ID:         rec.ID,
		Service:    rec.Service,
		Endpoint:   rec.Endpoint,
		Request:    rec.Request,
		Response:   rec.Response,
		StatusCode: rec.StatusCode,
		Error:      rec.Error,
		DurationMs: rec.Duration.Milliseconds(),
		StartedAt:  rec.StartedAt,
	}
}

func (c *APICall) Record() types.CallRecord {
	return types.CallRecord{
		ID:         c.ID,
		Service:    c.Service,
		Endpoint:   c.Endpoint,
		Request:    c.Request,
		Response:   c.Response,
		StatusCode: c.StatusCode,
		Error:      c.Error,
		Duration:   time.Duration(c.DurationMs) * time.Millisecond,
		StartedAt:  c.StartedAt,
	}
}
