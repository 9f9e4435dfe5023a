package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/learnchat-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// WorldMessageCache 世界消息日志：按发送时间（毫秒）计分的容量受限有序集合
type WorldMessageCache struct {
	client      *redis.Client
	key         string
	maxGet      int
	maxCapacity int
	now         func() time.Time
}

// NewWorldMessageCache 创建世界消息缓存
func NewWorldMessageCache(client *redis.Client, prefix string, maxGet, maxCapacity int) *WorldMessageCache {
	return &WorldMessageCache{
		client:      client,
		key:         buildKey(prefix, constants.WorldMessageKey),
		maxGet:      maxGet,
		maxCapacity: maxCapacity,
		now:         time.Now,
	}
}

// Add 追加消息；超出容量时淘汰分值最小（最早）的一条
func (c *WorldMessageCache) Add(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := c.client.ZAdd(ctx, c.key, redis.Z{
		Score:  float64(msg.CreatedAt.UnixMilli()),
		Member: payload,
	}).Err(); err != nil {
		return err
	}
	card, err := c.client.ZCard(ctx, c.key).Result()
	if err != nil {
		return err
	}
	if card >= int64(c.maxCapacity)+1 {
		return c.client.ZPopMin(ctx, c.key, 1).Err()
	}
	return nil
}

// GetLatest 返回最新的 maxGet 条，按时间升序
func (c *WorldMessageCache) GetLatest(ctx context.Context) ([]Message, error) {
	end, err := c.client.ZCard(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}
	start := end - int64(c.maxGet)
	if start < 0 {
		start = 0
	}
	return c.rangeMessages(ctx, start, end-1)
}

// GetBefore 返回紧邻 score 之前的至多 maxGet 条，按时间升序。
// 末位秩 = 集合大小 − [score, now] 区间内的条数 − 1，假定不存在未来时间的消息。
func (c *WorldMessageCache) GetBefore(ctx context.Context, score int64) ([]Message, error) {
	card, err := c.client.ZCard(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}
	count, err := c.client.ZCount(ctx, c.key,
		strconv.FormatInt(score, 10),
		strconv.FormatInt(c.now().UnixMilli(), 10),
	).Result()
	if err != nil {
		return nil, err
	}
	end := card - count - 1
	if end < 0 {
		return []Message{}, nil
	}
	start := end + 1 - int64(c.maxGet)
	if start < 0 {
		start = 0
	}
	return c.rangeMessages(ctx, start, end)
}

// GetAfter 返回 score 之后的至多 maxGet 条，按时间升序。
// 起始秩 = 分值落在 [0, score] 内的条数。
func (c *WorldMessageCache) GetAfter(ctx context.Context, score int64) ([]Message, error) {
	start, err := c.client.ZCount(ctx, c.key, "0", strconv.FormatInt(score, 10)).Result()
	if err != nil {
		return nil, err
	}
	end := start - 1 + int64(c.maxGet)
	return c.rangeMessages(ctx, start, end)
}

// Clear 清空世界消息日志（进程启动时调用）
func (c *WorldMessageCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func (c *WorldMessageCache) rangeMessages(ctx context.Context, start, end int64) ([]Message, error) {
	raw, err := c.client.ZRange(ctx, c.key, start, end).Result()
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
