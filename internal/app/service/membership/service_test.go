package membership

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

type fakeProcessor struct {
	t      *testing.T
	getSub func(ref string) (*ProcessorSubscription, error)
}

func (f *fakeProcessor) EnsureCustomer(_ context.Context, _, _, _ string) (string, error) {
	panic("not used")
}

func (f *fakeProcessor) CreateSubscription(_ context.Context, _, _ string) (*CheckoutIntent, error) {
	panic("not used")
}

func (f *fakeProcessor) GetSubscription(_ context.Context, ref string) (*ProcessorSubscription, error) {
	if f.getSub == nil {
		f.t.Fatal("processor must not be consulted")
	}
	return f.getSub(ref)
}

func (f *fakeProcessor) CancelAtPeriodEnd(_ context.Context, _ string) (*ProcessorSubscription, error) {
	panic("not used")
}

func (f *fakeProcessor) VerifyEvent(_ []byte, _ string) (*types.BillingEvent, error) {
	panic("not used")
}

func setupService(t *testing.T, proc ProcessorClient) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	svc := &Service{
		db:        gormDB,
		log:       zap.NewNop().Sugar(),
		cfg:       &config.Config{Plans: []*config.Plan{monthlyPlan}},
		processor: proc,
	}
	return svc, mock, func() { sqlDB.Close() }
}

func membershipRow(userID, subscriptionRef string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "subscription_ref", "status"}).
		AddRow("m-1", userID, subscriptionRef, "incomplete")
}

func TestConfirmRejectsForeignSubscriptionRef(t *testing.T) {
	proc := &fakeProcessor{t: t}
	svc, mock, cleanup := setupService(t, proc)
	defer cleanup()

	// caller's own row holds a different ref; the supplied one belongs to
	// someone else and must not be adopted
	mock.ExpectQuery(`SELECT (.+) FROM "memberships"`).
		WillReturnRows(membershipRow("u-1", "sub_own"))

	_, err := svc.Confirm(context.Background(), "u-1", "sub_foreign")
	require.ErrorIs(t, err, ErrNoMembership)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRequiresInitiatedRecord(t *testing.T) {
	proc := &fakeProcessor{t: t}
	svc, mock, cleanup := setupService(t, proc)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Confirm(context.Background(), "u-1", "sub_1")
	require.ErrorIs(t, err, ErrNoMembership)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmOwnRefStillPending(t *testing.T) {
	proc := &fakeProcessor{t: t, getSub: func(ref string) (*ProcessorSubscription, error) {
		return &ProcessorSubscription{Ref: ref, Status: "incomplete"}, nil
	}}
	svc, mock, cleanup := setupService(t, proc)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "memberships"`).
		WillReturnRows(membershipRow("u-1", "sub_own"))

	_, err := svc.Confirm(context.Background(), "u-1", "sub_own")
	require.ErrorIs(t, err, ErrStillProcessing)
	require.NoError(t, mock.ExpectationsWereMet())
}
