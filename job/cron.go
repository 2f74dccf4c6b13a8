package job

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner 删除早于给定时间的调用记录
type Pruner interface {
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
}

// PruneCallLogs 删除 retention 之前的调用记录
func PruneCallLogs(ctx context.Context, p Pruner, retention time.Duration, now time.Time) {
	rows, err := p.PruneBefore(ctx, now.Add(-retention))
	if err != nil {
		log.Println(">>> [Cron] Error:", err)
		return
	}
	log.Printf(">>> [Cron] 清理了 %d 条过期调用记录", rows)
}

// StartCronJob 按 spec（含秒）定时清理调用日志，返回的 cron 由调用方 Stop
func StartCronJob(p Pruner, spec string, retention time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		PruneCallLogs(context.Background(), p, retention, time.Now())
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
