package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/usecase"
)

type syncFixture struct {
	directory      *fakeDirectory
	connectivity   *fakeConnectivity
	marketRepo     *memMarketRepo
	submissionRepo *memSubmissionRepo
	userRepo       *memUserRepo
	svc            usecase.SyncUsecase
}

func newSyncFixture() *syncFixture {
	f := &syncFixture{
		directory:      newFakeDirectory(),
		connectivity:   &fakeConnectivity{online: true},
		marketRepo:     newMemMarketRepo(),
		submissionRepo: newMemSubmissionRepo(),
		userRepo:       newMemUserRepo(),
	}
	f.svc = NewSyncService(f.directory, f.connectivity, f.marketRepo, f.submissionRepo, f.userRepo, testLogger())

	return f
}

func remoteMarket(id, name, submittedBy string, status entity.MarketStatus) *entity.Market {
	return &entity.Market{
		ID:              id,
		Name:            name,
		Category:        entity.CategoryFarmersMarket,
		SubmittedBy:     submittedBy,
		SubmittedByName: "Submitter",
		SubmittedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:          status,
	}
}

func TestReconcile_Offline(t *testing.T) {
	f := newSyncFixture()
	f.connectivity.online = false

	report, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, report.Synced)
	assert.Zero(t, f.directory.marketFetches)
}

func TestReconcile_ApprovedMarketsEnterCache(t *testing.T) {
	f := newSyncFixture()
	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "someone-else", entity.MarketStatusApproved)
	f.directory.markets["m2"] = remoteMarket("m2", "Hidden Stall", "someone-else", entity.MarketStatusPending)
	f.directory.markets["m3"] = remoteMarket("m3", "Closed Corner", "someone-else", entity.MarketStatusRejected)

	report, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, report.Synced)
	assert.Equal(t, 1, report.MarketsUpserted)
	assert.Equal(t, 2, report.MarketsDeleted)

	cached, err := f.marketRepo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "m1", cached[0].ID)
}

func TestReconcile_StatusGating(t *testing.T) {
	f := newSyncFixture()

	// Previously approved, now rejected remotely.
	require.NoError(t, f.marketRepo.Upsert(context.Background(), remoteMarket("m1", "Green Valley", "u", entity.MarketStatusApproved)))
	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "u", entity.MarketStatusRejected)

	_, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	cached, err := f.marketRepo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestReconcile_OrphanCleanup(t *testing.T) {
	f := newSyncFixture()

	require.NoError(t, f.marketRepo.Upsert(context.Background(), remoteMarket("gone", "Vanished", "u", entity.MarketStatusApproved)))
	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "u", entity.MarketStatusApproved)

	report, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphansRemoved)

	_, err = f.marketRepo.FindByID(context.Background(), "gone")
	assert.Error(t, err)
}

func TestReconcile_SubmissionMirroring(t *testing.T) {
	f := newSyncFixture()
	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "user-1", entity.MarketStatusPending)

	_, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	subs, err := f.submissionRepo.ListBySubmitter(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "m1", subs[0].ID)
	assert.Equal(t, entity.SubmissionKindNew, subs[0].Kind)
	assert.Equal(t, entity.MarketStatusPending, subs[0].Status)

	// The market is approved remotely; the same submission row must follow.
	f.directory.markets["m1"].Status = entity.MarketStatusApproved

	_, err = f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	subs, err = f.submissionRepo.ListBySubmitter(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "m1", subs[0].ID)
	assert.Equal(t, entity.MarketStatusApproved, subs[0].Status)
}

func TestReconcile_DeleteRequestMirroring(t *testing.T) {
	f := newSyncFixture()
	f.directory.submissions["m9"] = &entity.Submission{
		ID:          "whatever-remote-id",
		MarketID:    "m9",
		MarketName:  "Roadside Stall",
		SubmittedBy: "user-1",
		Status:      entity.MarketStatusPending,
		Kind:        entity.SubmissionKindDelete,
		SubmittedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	_, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	subs, err := f.submissionRepo.ListBySubmitter(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, entity.DeleteSubmissionID("m9"), subs[0].ID)
	assert.Equal(t, "Delete: Roadside Stall", subs[0].MarketName)
	assert.Equal(t, "Unknown", subs[0].SubmittedByName)
}

func TestReconcile_DeleteRequestMirroring_UsesCachedDisplayName(t *testing.T) {
	f := newSyncFixture()
	require.NoError(t, f.userRepo.Save(context.Background(), &entity.User{ID: "user-1", DisplayName: "Alex"}))
	f.directory.submissions["m9"] = &entity.Submission{
		MarketID:    "m9",
		MarketName:  "Roadside Stall",
		SubmittedBy: "user-1",
		Kind:        entity.SubmissionKindDelete,
	}

	_, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	subs, err := f.submissionRepo.ListBySubmitter(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Alex", subs[0].SubmittedByName)
}

func TestReconcile_DeleteRequestIDStability(t *testing.T) {
	f := newSyncFixture()
	f.directory.submissions["m9"] = &entity.Submission{
		MarketID:    "m9",
		MarketName:  "Roadside Stall",
		SubmittedBy: "user-1",
		Kind:        entity.SubmissionKindDelete,
	}

	for i := 0; i < 2; i++ {
		_, err := f.svc.Reconcile(context.Background(), "user-1")
		require.NoError(t, err)
	}

	all, err := f.submissionRepo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entity.DeleteSubmissionID("m9"), all[0].ID)
}

func TestReconcile_Idempotence(t *testing.T) {
	f := newSyncFixture()
	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "user-1", entity.MarketStatusApproved)
	f.directory.markets["m2"] = remoteMarket("m2", "Hilltop", "other", entity.MarketStatusApproved)
	f.directory.submissions["m2"] = &entity.Submission{
		MarketID:    "m2",
		MarketName:  "Hilltop",
		SubmittedBy: "user-1",
		Kind:        entity.SubmissionKindDelete,
	}

	_, err := f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	marketsAfterFirst, err := f.marketRepo.ListAll(context.Background())
	require.NoError(t, err)
	subsAfterFirst, err := f.submissionRepo.ListAll(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)

	marketsAfterSecond, err := f.marketRepo.ListAll(context.Background())
	require.NoError(t, err)
	subsAfterSecond, err := f.submissionRepo.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, marketsAfterFirst, marketsAfterSecond)
	assert.Equal(t, subsAfterFirst, subsAfterSecond)
}

func TestReconcile_FetchFailureLeavesCacheUntouched(t *testing.T) {
	f := newSyncFixture()

	require.NoError(t, f.marketRepo.Upsert(context.Background(), remoteMarket("m1", "Green Valley", "user-1", entity.MarketStatusApproved)))
	require.NoError(t, f.submissionRepo.Upsert(context.Background(), &entity.Submission{
		ID:          "m1",
		MarketID:    "m1",
		SubmittedBy: "user-1",
		Kind:        entity.SubmissionKindNew,
	}))
	f.directory.failMarkets = true

	_, err := f.svc.Reconcile(context.Background(), "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNetworkFailed)

	markets, err := f.marketRepo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, markets, 1)

	subs, err := f.submissionRepo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

// ctxCheckedSubmissionRepo rejects any call whose context is already done,
// the way a real store driver would.
type ctxCheckedSubmissionRepo struct {
	*memSubmissionRepo
}

func (r *ctxCheckedSubmissionRepo) Upsert(ctx context.Context, submission *entity.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.memSubmissionRepo.Upsert(ctx, submission)
}

func (r *ctxCheckedSubmissionRepo) DeleteBySubmitterAndKind(ctx context.Context, userID string, kind entity.SubmissionKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.memSubmissionRepo.DeleteBySubmitterAndKind(ctx, userID, kind)
}

func TestReconcile_SurvivesCallerCancellation(t *testing.T) {
	f := newSyncFixture()
	subRepo := &ctxCheckedSubmissionRepo{memSubmissionRepo: f.submissionRepo}
	svc := NewSyncService(f.directory, f.connectivity, f.marketRepo, subRepo, f.userRepo, testLogger())

	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "user-1", entity.MarketStatusPending)
	require.NoError(t, f.submissionRepo.Upsert(context.Background(), &entity.Submission{
		ID:          "m1",
		MarketID:    "m1",
		SubmittedBy: "user-1",
		Kind:        entity.SubmissionKindNew,
	}))

	// The caller goes away right after the snapshot lands, before the
	// derived rows are rebuilt. The pass must still run to completion.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.directory.afterMarketFetch = cancel

	report, err := svc.Reconcile(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, report.Synced)

	subs, err := f.submissionRepo.ListBySubmitter(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "m1", subs[0].ID)
}

func TestReconcile_EmptyUserSkipsSubmissionRebuild(t *testing.T) {
	f := newSyncFixture()
	f.directory.markets["m1"] = remoteMarket("m1", "Green Valley", "someone", entity.MarketStatusApproved)
	f.directory.submissions["m1"] = &entity.Submission{
		MarketID:    "m1",
		SubmittedBy: "someone",
		Kind:        entity.SubmissionKindDelete,
	}

	report, err := f.svc.Reconcile(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, report.MarketsUpserted)
	assert.Zero(t, report.SubmissionsStored)

	subs, err := f.submissionRepo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}
