package services

import (
	"errors"
	"fmt"
	"testing"

	"tably_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendScanLogRestampsOnKeyCollision(t *testing.T) {
	entry := &models.ScanLog{PoolID: "p1", CreatedAt: "2026-08-28T10:00:00.000000000Z"}

	var stamps []string
	err := appendScanLog(entry, func(e *models.ScanLog) error {
		stamps = append(stamps, e.CreatedAt)
		if len(stamps) == 1 {
			return fmt.Errorf("row exists: %w", ErrConditionFailed)
		}
		return nil
	})

	require.NoError(t, err)
	require.Len(t, stamps, 2)
	assert.NotEqual(t, stamps[0], stamps[1], "a key collision must re-stamp the entry, never overwrite the row")
}

func TestAppendScanLogGivesUpAfterRepeatedCollisions(t *testing.T) {
	calls := 0
	err := appendScanLog(&models.ScanLog{PoolID: "p1"}, func(*models.ScanLog) error {
		calls++
		return fmt.Errorf("row exists: %w", ErrConditionFailed)
	})

	require.Error(t, err)
	assert.True(t, IsConditionFailed(err))
	assert.Equal(t, 3, calls)
}

func TestAppendScanLogHardErrorNotRetried(t *testing.T) {
	calls := 0
	err := appendScanLog(&models.ScanLog{PoolID: "p1"}, func(*models.ScanLog) error {
		calls++
		return errors.New("throughput exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
