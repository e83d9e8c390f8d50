package sqlite

import (
	"context"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// submissionRepository implements the repository.SubmissionRepository interface.
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository is the constructor for submissionRepository.
func NewSubmissionRepository(db *gorm.DB) repository.SubmissionRepository {
	return &submissionRepository{
		db: db,
	}
}

// Upsert inserts the submission or replaces the cached row with the same ID.
func (repo *submissionRepository) Upsert(ctx context.Context, submission *entity.Submission) error {
	submissionM := fromSubmissionDomain(submission)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(submissionM).Error; err != nil {
		return domainerrors.NewStoreExecuteError(err, "failed to upsert submission")
	}

	return nil
}

// ListAll returns every cached submission.
func (repo *submissionRepository) ListAll(ctx context.Context) ([]*entity.Submission, error) {
	var submissionModels []*model.SubmissionModel

	if err := repo.db.WithContext(ctx).
		Find(&submissionModels).Error; err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "failed to list submissions")
	}

	return toSubmissionDomainSlice(submissionModels), nil
}

// ListBySubmitter returns cached submissions authored by the given user, newest first.
func (repo *submissionRepository) ListBySubmitter(ctx context.Context, userID string) ([]*entity.Submission, error) {
	var submissionModels []*model.SubmissionModel

	if err := repo.db.WithContext(ctx).
		Where("submitted_by = ?", userID).
		Order("submitted_at DESC").
		Find(&submissionModels).Error; err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "failed to list submissions by submitter")
	}

	return toSubmissionDomainSlice(submissionModels), nil
}

// Delete removes the submission with the given ID, if present.
func (repo *submissionRepository) Delete(ctx context.Context, id string) error {
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SubmissionModel{}).Error; err != nil {
		return domainerrors.NewStoreExecuteError(err, "failed to delete submission")
	}

	return nil
}

// DeleteBySubmitterAndKind removes every cached submission of the given kind
// authored by the given user.
func (repo *submissionRepository) DeleteBySubmitterAndKind(ctx context.Context, userID string, kind entity.SubmissionKind) error {
	if err := repo.db.WithContext(ctx).
		Where("submitted_by = ? AND kind = ?", userID, string(kind)).
		Delete(&model.SubmissionModel{}).Error; err != nil {
		return domainerrors.NewStoreExecuteError(err, "failed to delete submissions by submitter and kind")
	}

	return nil
}

// --- Mapper Functions ---

func toSubmissionDomainSlice(models []*model.SubmissionModel) []*entity.Submission {
	submissions := make([]*entity.Submission, 0, len(models))
	for _, submissionM := range models {
		submissions = append(submissions, toSubmissionDomain(submissionM))
	}

	return submissions
}

// toSubmissionDomain converts a GORM SubmissionModel to a domain Submission entity.
func toSubmissionDomain(data *model.SubmissionModel) *entity.Submission {
	if data == nil {
		return nil
	}

	return &entity.Submission{
		ID:              data.ID,
		MarketID:        data.MarketID,
		MarketName:      data.MarketName,
		SubmittedBy:     data.SubmittedBy,
		SubmittedByName: data.SubmittedByName,
		Status:          entity.MarketStatus(data.Status),
		Kind:            entity.SubmissionKind(data.Kind),
		ChangeDetails:   data.ChangeDetails,
		SubmittedAt:     data.SubmittedAt,
		ReviewedAt:      data.ReviewedAt,
		ReviewedBy:      data.ReviewedBy,
		RejectionReason: data.RejectionReason,
	}
}

// fromSubmissionDomain converts a domain Submission entity to a GORM SubmissionModel.
func fromSubmissionDomain(data *entity.Submission) *model.SubmissionModel {
	if data == nil {
		return nil
	}

	return &model.SubmissionModel{
		ID:              data.ID,
		MarketID:        data.MarketID,
		MarketName:      data.MarketName,
		SubmittedBy:     data.SubmittedBy,
		SubmittedByName: data.SubmittedByName,
		Status:          string(data.Status),
		Kind:            string(data.Kind),
		ChangeDetails:   data.ChangeDetails,
		SubmittedAt:     data.SubmittedAt,
		ReviewedAt:      data.ReviewedAt,
		ReviewedBy:      data.ReviewedBy,
		RejectionReason: data.RejectionReason,
	}
}
