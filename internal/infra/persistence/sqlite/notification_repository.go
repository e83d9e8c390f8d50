package sqlite

import (
	"context"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// Insert persists a new notification.
func (repo *notificationRepository) Insert(ctx context.Context, notification *entity.Notification) error {
	notificationM := fromNotificationDomain(notification)

	if err := repo.db.WithContext(ctx).Create(notificationM).Error; err != nil {
		return domainerrors.NewStoreExecuteError(err, "failed to insert notification")
	}

	return nil
}

// ListByUser returns every cached notification for the user, newest first.
func (repo *notificationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	var notificationModels []*model.NotificationModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notificationModels).Error; err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "failed to list notifications")
	}

	return toNotificationDomainSlice(notificationModels), nil
}

// ListUnreadByUser returns the user's unread notifications, newest first.
func (repo *notificationRepository) ListUnreadByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	var notificationModels []*model.NotificationModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notificationModels).Error; err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "failed to list unread notifications")
	}

	return toNotificationDomainSlice(notificationModels), nil
}

// MarkRead flips the read flag to true.
func (repo *notificationRepository) MarkRead(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ?", id).
		Update("is_read", true)

	if result.Error != nil {
		return domainerrors.NewStoreExecuteError(result.Error, "failed to mark notification as read")
	}

	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// HasUnread reports whether any unread notification exists for the user.
func (repo *notificationRepository) HasUnread(ctx context.Context, userID string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return false, domainerrors.NewStoreExecuteError(err, "failed to count unread notifications")
	}

	return count > 0, nil
}

// --- Mapper Functions ---

func toNotificationDomainSlice(models []*model.NotificationModel) []*entity.Notification {
	notifications := make([]*entity.Notification, 0, len(models))
	for _, notificationM := range models {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications
}

// toNotificationDomain converts a GORM NotificationModel to a domain Notification entity.
func toNotificationDomain(data *model.NotificationModel) *entity.Notification {
	if data == nil {
		return nil
	}

	return &entity.Notification{
		ID:              data.ID,
		UserID:          data.UserID,
		Title:           data.Title,
		Body:            data.Body,
		Category:        entity.NotificationCategory(data.Category),
		RelatedMarketID: data.RelatedMarketID,
		CreatedAt:       data.CreatedAt,
		IsRead:          data.IsRead,
	}
}

// fromNotificationDomain converts a domain Notification entity to a GORM NotificationModel.
func fromNotificationDomain(data *entity.Notification) *model.NotificationModel {
	if data == nil {
		return nil
	}

	return &model.NotificationModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Title:           data.Title,
		Body:            data.Body,
		Category:        string(data.Category),
		RelatedMarketID: data.RelatedMarketID,
		CreatedAt:       data.CreatedAt,
		IsRead:          data.IsRead,
	}
}
