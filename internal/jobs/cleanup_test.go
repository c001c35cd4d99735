package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCodeCleaner struct {
	mock.Mock
}

func (m *MockCodeCleaner) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestPurgeExpiredCodes(t *testing.T) {
	cleaner := new(MockCodeCleaner)
	ctx := context.Background()
	now := time.Now()

	cleaner.On("ClearExpiredCodes", ctx, now).Return(int64(3), nil).Once()

	cleared, err := PurgeExpiredCodes(ctx, cleaner, now, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, int64(3), cleared)
	cleaner.AssertExpectations(t)
}

func TestPurgeExpiredCodes_Error(t *testing.T) {
	cleaner := new(MockCodeCleaner)
	cleaner.On("ClearExpiredCodes", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := PurgeExpiredCodes(context.Background(), cleaner, time.Now(), zap.NewNop())

	assert.ErrorContains(t, err, "db down")
}

func TestNewScheduler(t *testing.T) {
	cleaner := new(MockCodeCleaner)

	scheduler, err := NewScheduler("@every 1h", cleaner, zap.NewNop())
	require.NoError(t, err)

	scheduler.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	scheduler.Stop(ctx)

	_, err = NewScheduler("not a schedule", cleaner, zap.NewNop())
	assert.Error(t, err)
}
