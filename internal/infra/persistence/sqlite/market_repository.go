package sqlite

import (
	"context"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// marketRepository implements the repository.MarketRepository interface.
type marketRepository struct {
	db *gorm.DB
}

// NewMarketRepository is the constructor for marketRepository.
func NewMarketRepository(db *gorm.DB) repository.MarketRepository {
	return &marketRepository{
		db: db,
	}
}

// Upsert inserts the market or replaces the cached row with the same ID.
func (repo *marketRepository) Upsert(ctx context.Context, market *entity.Market) error {
	marketM := fromMarketDomain(market)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(marketM).Error; err != nil {
		return domainerrors.NewStoreExecuteError(err, "failed to upsert market")
	}

	return nil
}

// FindByID retrieves a cached market by its ID.
func (repo *marketRepository) FindByID(ctx context.Context, id string) (*entity.Market, error) {
	var marketM model.MarketModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&marketM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMarketNotFound
		}

		return nil, domainerrors.NewStoreExecuteError(err, "failed to find market by ID")
	}

	return toMarketDomain(&marketM), nil
}

// ListAll returns every cached market.
func (repo *marketRepository) ListAll(ctx context.Context) ([]*entity.Market, error) {
	var marketModels []*model.MarketModel

	if err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&marketModels).Error; err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "failed to list markets")
	}

	markets := make([]*entity.Market, 0, len(marketModels))
	for _, marketM := range marketModels {
		markets = append(markets, toMarketDomain(marketM))
	}

	return markets, nil
}

// ListBySubmitter returns cached markets submitted by the given user.
func (repo *marketRepository) ListBySubmitter(ctx context.Context, userID string) ([]*entity.Market, error) {
	var marketModels []*model.MarketModel

	if err := repo.db.WithContext(ctx).
		Where("submitted_by = ?", userID).
		Find(&marketModels).Error; err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "failed to list markets by submitter")
	}

	markets := make([]*entity.Market, 0, len(marketModels))
	for _, marketM := range marketModels {
		markets = append(markets, toMarketDomain(marketM))
	}

	return markets, nil
}

// Delete removes the market with the given ID. Absent IDs are not an error.
func (repo *marketRepository) Delete(ctx context.Context, id string) error {
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MarketModel{}).Error; err != nil {
		return domainerrors.NewStoreExecuteError(err, "failed to delete market")
	}

	return nil
}

// --- Mapper Functions ---

// toMarketDomain converts a GORM MarketModel to a domain Market entity.
func toMarketDomain(data *model.MarketModel) *entity.Market {
	if data == nil {
		return nil
	}

	return &entity.Market{
		ID:              data.ID,
		Name:            data.Name,
		Description:     data.Description,
		Address:         data.Address,
		Latitude:        data.Latitude,
		Longitude:       data.Longitude,
		Category:        entity.MarketCategory(data.Category),
		OpeningHours:    data.OpeningHours,
		PhotoURL:        data.PhotoURL,
		Likes:           data.Likes,
		SubmittedBy:     data.SubmittedBy,
		SubmittedByName: data.SubmittedByName,
		SubmittedAt:     data.SubmittedAt,
		Status:          entity.MarketStatus(data.Status),
	}
}

// fromMarketDomain converts a domain Market entity to a GORM MarketModel.
func fromMarketDomain(data *entity.Market) *model.MarketModel {
	if data == nil {
		return nil
	}

	return &model.MarketModel{
		ID:              data.ID,
		Name:            data.Name,
		Description:     data.Description,
		Address:         data.Address,
		Latitude:        data.Latitude,
		Longitude:       data.Longitude,
		Category:        string(data.Category),
		OpeningHours:    data.OpeningHours,
		PhotoURL:        data.PhotoURL,
		Likes:           data.Likes,
		SubmittedBy:     data.SubmittedBy,
		SubmittedByName: data.SubmittedByName,
		SubmittedAt:     data.SubmittedAt,
		Status:          string(data.Status),
	}
}
