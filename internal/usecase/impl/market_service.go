package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/domain/service"
	"marketpin/internal/errors"
	"marketpin/internal/usecase"
)

type marketService struct {
	session        service.SessionService
	directory      service.DirectoryClient
	marketRepo     repository.MarketRepository
	submissionRepo repository.SubmissionRepository
	photoStore     service.PhotoStore
	publisher      service.EventPublisher
	shareCodes     service.ShareCodeService
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewMarketService creates a new market service instance
func NewMarketService(
	session service.SessionService,
	directory service.DirectoryClient,
	marketRepo repository.MarketRepository,
	submissionRepo repository.SubmissionRepository,
	photoStore service.PhotoStore,
	publisher service.EventPublisher,
	shareCodes service.ShareCodeService,
	logger *slog.Logger,
) usecase.MarketUsecase {
	return &marketService{
		session:        session,
		directory:      directory,
		marketRepo:     marketRepo,
		submissionRepo: submissionRepo,
		photoStore:     photoStore,
		publisher:      publisher,
		shareCodes:     shareCodes,
		validate:       validator.New(),
		logger:         logger,
	}
}

// ApprovedMarkets returns the cached markets passing the filter. Text and
// category filters compose with AND; the category set itself is an OR union.
func (s *marketService) ApprovedMarkets(ctx context.Context, filter usecase.MarketFilter) ([]*entity.Market, error) {
	markets, err := s.marketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	categories := make(map[entity.MarketCategory]struct{}, len(filter.Categories))
	for _, c := range filter.Categories {
		categories[c] = struct{}{}
	}

	filtered := make([]*entity.Market, 0, len(markets))
	for _, market := range markets {
		if query != "" &&
			!strings.Contains(strings.ToLower(market.Name), query) &&
			!strings.Contains(strings.ToLower(market.Description), query) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[market.Category]; !ok {
				continue
			}
		}
		filtered = append(filtered, market)
	}

	return filtered, nil
}

// NearbyMarkets returns cached markets within radiusMeters of the point,
// nearest first.
func (s *marketService) NearbyMarkets(ctx context.Context, lat, lon float64, radiusMeters float64) ([]*entity.Market, error) {
	markets, err := s.marketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	origin := orb.Point{lon, lat}

	type withDistance struct {
		market   *entity.Market
		distance float64
	}

	nearby := make([]withDistance, 0, len(markets))
	for _, market := range markets {
		d := geo.Distance(origin, orb.Point{market.Longitude, market.Latitude})
		if radiusMeters > 0 && d > radiusMeters {
			continue
		}
		nearby = append(nearby, withDistance{market: market, distance: d})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].distance < nearby[j].distance
	})

	result := make([]*entity.Market, len(nearby))
	for i, n := range nearby {
		result[i] = n.market
	}

	return result, nil
}

// GetMarket retrieves one cached market by ID.
func (s *marketService) GetMarket(ctx context.Context, id string) (*entity.Market, error) {
	market, err := s.marketRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMarketNotFound) {
			return nil, domainerrors.ErrMarketNotFound
		}

		return nil, err
	}

	return market, nil
}

// SubmitMarket files a new-market request with the directory and records the
// pending submission locally. The market itself does not enter the cache
// until the directory approves it.
func (s *marketService) SubmitMarket(ctx context.Context, input *usecase.SubmitMarketInput) (*entity.Market, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}
	category := entity.MarketCategory(input.Category)
	if !category.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown category: %s", input.Category))
	}

	photoURL := ""
	if input.Photo != nil {
		photoURL, err = s.photoStore.Upload(ctx, input.PhotoName, input.PhotoContentType, input.Photo)
		if err != nil {
			return nil, err
		}
	}

	market := &entity.Market{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Description:     input.Description,
		Address:         input.Address,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Category:        category,
		OpeningHours:    input.OpeningHours,
		PhotoURL:        photoURL,
		SubmittedBy:     user.ID,
		SubmittedByName: user.DisplayName,
		SubmittedAt:     time.Now().UTC(),
		Status:          entity.MarketStatusPending,
	}

	if err := s.directory.PutMarket(ctx, market); err != nil {
		return nil, err
	}

	submission := &entity.Submission{
		ID:              market.ID,
		MarketID:        market.ID,
		MarketName:      market.Name,
		SubmittedBy:     user.ID,
		SubmittedByName: user.DisplayName,
		Status:          entity.MarketStatusPending,
		Kind:            entity.SubmissionKindNew,
		SubmittedAt:     market.SubmittedAt,
	}
	if err := s.submissionRepo.Upsert(ctx, submission); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, submission)

	s.logger.Info("Market submitted",
		slog.String("market_id", market.ID),
		slog.String("name", market.Name),
	)

	return market, nil
}

// SubmitDeleteRequest reports a cached market as closed or incorrect. The
// local row carries the stable delete-prefixed ID from the start, so a repeat
// report on the same market overwrites the previous one.
func (s *marketService) SubmitDeleteRequest(ctx context.Context, input *usecase.DeleteRequestInput) (*entity.Submission, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	market, err := s.GetMarket(ctx, input.MarketID)
	if err != nil {
		return nil, err
	}

	details := input.Reason
	if input.Photo != nil {
		evidenceURL, uploadErr := s.photoStore.Upload(ctx, input.PhotoName, input.PhotoContentType, input.Photo)
		if uploadErr != nil {
			return nil, uploadErr
		}
		details = fmt.Sprintf("%s [Photo: %s]", details, evidenceURL)
	}

	submission := &entity.Submission{
		ID:              entity.DeleteSubmissionID(market.ID),
		MarketID:        market.ID,
		MarketName:      market.Name,
		SubmittedBy:     user.ID,
		SubmittedByName: user.DisplayName,
		Status:          entity.MarketStatusPending,
		Kind:            entity.SubmissionKindDelete,
		ChangeDetails:   details,
		SubmittedAt:     time.Now().UTC(),
	}

	// The directory keeps the raw market name; the mirror step re-applies
	// the display prefix on every pass.
	if err := s.directory.PutSubmission(ctx, submission); err != nil {
		return nil, err
	}

	local := *submission
	local.MarketName = "Delete: " + submission.MarketName
	if err := s.submissionRepo.Upsert(ctx, &local); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, submission)

	s.logger.Info("Delete request submitted",
		slog.String("market_id", market.ID),
		slog.String("submission_id", submission.ID),
	)

	return &local, nil
}

// LikeMarket increments the like counter. The remote write happens first so
// the count survives the next reconciliation pass.
func (s *marketService) LikeMarket(ctx context.Context, marketID string) (*entity.Market, error) {
	market, err := s.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	market.Likes++

	if err := s.directory.PutMarket(ctx, market); err != nil {
		return nil, err
	}
	if err := s.marketRepo.Upsert(ctx, market); err != nil {
		return nil, err
	}

	return market, nil
}

// HasOutstandingDeleteRequest reports whether the signed-in user already has
// a delete request recorded for the market.
func (s *marketService) HasOutstandingDeleteRequest(ctx context.Context, marketID string) (bool, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return false, err
	}

	submissions, err := s.submissionRepo.ListBySubmitter(ctx, user.ID)
	if err != nil {
		return false, err
	}

	for _, sub := range submissions {
		if sub.Kind == entity.SubmissionKindDelete && sub.MarketID == marketID {
			return true, nil
		}
	}

	return false, nil
}

// HasSubmissions reports whether the signed-in user authored any cached
// market or submission.
func (s *marketService) HasSubmissions(ctx context.Context) (bool, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return false, err
	}

	markets, err := s.marketRepo.ListBySubmitter(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if len(markets) > 0 {
		return true, nil
	}

	submissions, err := s.submissionRepo.ListBySubmitter(ctx, user.ID)
	if err != nil {
		return false, err
	}

	return len(submissions) > 0, nil
}

// UserSubmissions returns the signed-in user's submission history, newest first.
func (s *marketService) UserSubmissions(ctx context.Context) ([]*entity.Submission, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	return s.submissionRepo.ListBySubmitter(ctx, user.ID)
}

// ShareCode renders a scannable code pointing at the market listing.
func (s *marketService) ShareCode(ctx context.Context, marketID string) ([]byte, error) {
	if _, err := s.GetMarket(ctx, marketID); err != nil {
		return nil, err
	}

	return s.shareCodes.GenerateMarketCode(marketID)
}

// publishEvent notifies the review pipeline. Best-effort: a failed publish
// never fails the submission that triggered it.
func (s *marketService) publishEvent(ctx context.Context, submission *entity.Submission) {
	event := &service.SubmissionEvent{
		SubmissionID: submission.ID,
		MarketID:     submission.MarketID,
		MarketName:   submission.MarketName,
		Kind:         string(submission.Kind),
		SubmittedBy:  submission.SubmittedBy,
	}

	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish submission event",
			slog.String("submission_id", submission.ID),
			slog.Any("error", err),
		)
	}
}
