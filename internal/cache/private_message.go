package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/learnchat-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// PrivateMessageCache 私信队列：每收件人一个 FIFO 列表，读取即清空
type PrivateMessageCache struct {
	client *redis.Client
	prefix string
}

// NewPrivateMessageCache 创建私信缓存
func NewPrivateMessageCache(client *redis.Client, prefix string) *PrivateMessageCache {
	return &PrivateMessageCache{client: client, prefix: prefix}
}

// Add 向收件人队列追加消息
func (c *PrivateMessageCache) Add(ctx context.Context, recipientID uint, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.client.RPush(ctx, c.recipientKey(recipientID), payload).Err()
}

// Drain 读取收件人的全部积压并删除队列（至多一次投递）
func (c *PrivateMessageCache) Drain(ctx context.Context, recipientID uint) ([]Message, error) {
	key := c.recipientKey(recipientID)
	raw, err := c.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
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

func (c *PrivateMessageCache) recipientKey(recipientID uint) string {
	return buildKey(c.prefix, fmt.Sprintf("%s%d", constants.PrivateMessageKeyPrefix, recipientID))
}
