package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"helpdesk-api/internal/config"
	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
	"helpdesk-api/internal/service/notification"
)

const maxAttachmentSize = 5 * 1024 * 1024

var allowedAttachmentExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".xlsx": true,
	".docx": true,
}

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketResolved      = errors.New("cannot send messages on a resolved ticket")
	ErrAttachmentTooLarge  = errors.New("attachment exceeds the 5 MB limit")
	ErrAttachmentExtension = errors.New("attachment file type is not allowed")
)

type Service interface {
	ListMessages(ctx context.Context, ticketID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error)
	Send(ctx context.Context, sender *domain.User, ticketID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error)
	UploadAttachment(ctx context.Context, ticketID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (string, error)
}

type service struct {
	messageRepo repository.MessageRepository
	ticketRepo  repository.TicketRepository
	minioClient *minio.Client
	redis       *redis.Client
	cfg         *config.Config
	broker      *notification.Broker
}

func NewService(
	messageRepo repository.MessageRepository,
	ticketRepo repository.TicketRepository,
	minioClient *minio.Client,
	redisClient *redis.Client,
	cfg *config.Config,
	broker *notification.Broker,
) Service {
	return &service{
		messageRepo: messageRepo,
		ticketRepo:  ticketRepo,
		minioClient: minioClient,
		redis:       redisClient,
		cfg:         cfg,
		broker:      broker,
	}
}

func (s *service) ListMessages(ctx context.Context, ticketID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error) {
	params.Validate()
	cacheKey := fmt.Sprintf("chat:%s:page:%d:size:%d", ticketID, params.Page, params.PageSize)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var result domain.PaginatedResponse[domain.Message]
			if json.Unmarshal([]byte(cached), &result) == nil {
				return result, nil
			}
		}
	}

	messages, total, err := s.messageRepo.ListByTicket(ctx, ticketID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}

	result := domain.NewPaginatedResponse(messages, params.Page, params.PageSize, total)

	if s.redis != nil {
		if resultJSON, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey, resultJSON, 5*time.Minute).Err()
		}
	}

	return result, nil
}

func (s *service) Send(ctx context.Context, sender *domain.User, ticketID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if ticket.Status == domain.StatusResolved {
		return nil, ErrTicketResolved
	}

	message := &domain.Message{
		ID:            uuid.New(),
		TicketID:      ticketID,
		SenderID:      sender.ID,
		Content:       input.Content,
		AttachmentURL: input.AttachmentURL,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	message.SenderName = sender.FullName
	message.SenderAvatarURL = sender.AvatarURL

	s.invalidateCache(ctx, ticketID)

	s.broker.Publish(domain.Event{
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		Kind:        domain.EventNewChatMessage,
		ActorName:   sender.FullName,
		OwnerID:     ticket.CreatorID,
		AdvisorID:   ticket.AdvisorID,
	})

	return message, nil
}

func (s *service) UploadAttachment(ctx context.Context, ticketID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (string, error) {
	if fileSize > maxAttachmentSize {
		return "", ErrAttachmentTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedAttachmentExtensions[ext] {
		return "", ErrAttachmentExtension
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return "", err
	}
	if ticket == nil {
		return "", ErrTicketNotFound
	}
	if ticket.Status == domain.StatusResolved {
		return "", ErrTicketResolved
	}

	storagePath := attachmentObjectKey(ext, time.Now())

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return s.getPublicURL(storagePath), nil
}

// attachmentObjectKey builds the bucket key for an upload, sharded by year
// and month so buckets stay listable as volume grows.
func attachmentObjectKey(ext string, now time.Time) string {
	return fmt.Sprintf("attachments/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.New(), ext)
}

func (s *service) invalidateCache(ctx context.Context, ticketID uuid.UUID) {
	if s.redis == nil {
		return
	}
	cachePattern := fmt.Sprintf("chat:%s:*", ticketID)
	keys, _ := s.redis.Keys(ctx, cachePattern).Result()
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}

func (s *service) getPublicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
