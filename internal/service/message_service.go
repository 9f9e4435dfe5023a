package service

import (
	"context"
	"time"

	"github.com/learnchat-next/internal/cache"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/models"
)

// MessageService 消息服务：世界消息日志与私信队列
type MessageService struct {
	world   *cache.WorldMessageCache
	private *cache.PrivateMessageCache
	now     func() time.Time
}

// NewMessageService 创建消息服务
func NewMessageService(world *cache.WorldMessageCache, private *cache.PrivateMessageCache) *MessageService {
	return &MessageService{
		world:   world,
		private: private,
		now:     time.Now,
	}
}

// SendWorld 以发送者身份快照向世界消息日志追加一条
func (s *MessageService) SendWorld(ctx context.Context, sender *models.User, body string) error {
	if err := s.world.Add(ctx, s.buildMessage(sender, body)); err != nil {
		return response.ErrInternal("", err)
	}
	return nil
}

// LatestWorld 最新一页世界消息
func (s *MessageService) LatestWorld(ctx context.Context) ([]cache.Message, error) {
	msgs, err := s.world.GetLatest(ctx)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	return msgs, nil
}

// WorldBefore 指定时刻之前的一页世界消息
func (s *MessageService) WorldBefore(ctx context.Context, at time.Time) ([]cache.Message, error) {
	msgs, err := s.world.GetBefore(ctx, at.UnixMilli())
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	return msgs, nil
}

// WorldAfter 指定时刻之后的一页世界消息
func (s *MessageService) WorldAfter(ctx context.Context, at time.Time) ([]cache.Message, error) {
	msgs, err := s.world.GetAfter(ctx, at.UnixMilli())
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	return msgs, nil
}

// SendPrivate 向收件人队列投递私信
func (s *MessageService) SendPrivate(ctx context.Context, sender *models.User, recipientID uint, body string) error {
	if err := s.private.Add(ctx, recipientID, s.buildMessage(sender, body)); err != nil {
		return response.ErrInternal("", err)
	}
	return nil
}

// DrainPrivate 取走自己的全部私信积压
func (s *MessageService) DrainPrivate(ctx context.Context, userID uint) ([]cache.Message, error) {
	msgs, err := s.private.Drain(ctx, userID)
	if err != nil {
		return nil, response.ErrInternal("", err)
	}
	return msgs, nil
}

func (s *MessageService) buildMessage(sender *models.User, body string) cache.Message {
	return cache.Message{
		AuthorID:     sender.ID,
		AuthorName:   sender.Name,
		AuthorAvatar: sender.Avatar,
		IsAdmin:      sender.IsAdmin(),
		Body:         body,
		CreatedAt:    s.now(),
	}
}
