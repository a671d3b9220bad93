package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"Office_Hub/internal/model"
)

// Publisher 消息投递端，pkg.KafkaProducer 实现了该接口
type Publisher interface {
	Publish(ctx context.Context, key, event string, payload []byte) error
}

type Sender func(ctx context.Context, a *model.ActivityLog) error

// ActivityRelayer 把尚未投递的活动日志推送到消息队列（outbox 模式）
type ActivityRelayer struct {
	repo      ActivityRepository
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
}

func NewActivityRelayer(repo ActivityRepository, sender Sender) *ActivityRelayer {
	return &ActivityRelayer{
		repo:      repo,
		batchSize: 200,
		maxRetry:  10,
		interval:  time.Second,
		sender:    sender,
	}
}

// ActivityEvent 投递到 kafka 的消息体
type ActivityEvent struct {
	ID          uint64    `json:"id"`
	Event       string    `json:"event"`
	Description string    `json:"description"`
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// KafkaSender 以员工 id 作为消息 key
func KafkaSender(p Publisher) Sender {
	return func(ctx context.Context, a *model.ActivityLog) error {
		payload, err := json.Marshal(ActivityEvent{
			ID:          a.ID,
			Event:       a.Event,
			Description: a.Description,
			SubjectType: a.SubjectType,
			SubjectID:   a.SubjectID,
			CreatedAt:   a.CreatedAt,
		})
		if err != nil {
			return err
		}
		return p.Publish(ctx, a.SubjectID, a.Event, payload)
	}
}

// LogSender 未配置 kafka 时使用：只打印
func LogSender(_ context.Context, a *model.ActivityLog) error {
	log.Printf("ACTIVITY event=%s subject=%s/%s desc=%q", a.Event, a.SubjectType, a.SubjectID, a.Description)
	return nil
}

// Run outbox启动器
func (r *ActivityRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 读取一批未投递记录逐条发送，失败的累加重试次数
func (r *ActivityRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.ListUnpublished(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		log.Printf("activity outbox query err: %v", err)
		return 0
	}
	sent := 0
	for i := range rows {
		a := rows[i]
		if err = r.sender(ctx, &a); err != nil {
			log.Printf("activity outbox send id=%d: %v", a.ID, err)
			_ = r.repo.RetryUpdate(ctx, a.ID)
			continue
		}
		if err = r.repo.MarkPublished(ctx, a.ID); err != nil {
			log.Printf("activity outbox mark id=%d: %v", a.ID, err)
			continue
		}
		sent++
	}
	return sent
}
