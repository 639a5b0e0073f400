package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoppageRecordFloorsSavedTime(t *testing.T) {
	tr := NewStoppageTracker(30)

	added := tr.Record(6*time.Second, 15)
	assert.Equal(t, 9, added)
	assert.Equal(t, 9, tr.Accrued())

	// Fractional seconds floor down.
	added = tr.Record(5500*time.Millisecond, 15)
	assert.Equal(t, 9, added)
	assert.Equal(t, 18, tr.Accrued())
}

func TestStoppageNoAccrualWhenSlow(t *testing.T) {
	tr := NewStoppageTracker(30)
	assert.Equal(t, 0, tr.Record(15*time.Second, 15))
	assert.Equal(t, 0, tr.Record(20*time.Second, 15))
	assert.Equal(t, 0, tr.Accrued())
}

func TestStoppageCap(t *testing.T) {
	tr := NewStoppageTracker(30)
	tr.Record(1*time.Second, 15) // +14
	tr.Record(1*time.Second, 15) // +14, 28 total
	added := tr.Record(1*time.Second, 15)
	assert.Equal(t, 2, added, "clamped to the cap")
	assert.Equal(t, 30, tr.Accrued())

	assert.Equal(t, 0, tr.Record(1*time.Second, 15))
}

func TestStoppagePayoutDrainsOnce(t *testing.T) {
	tr := NewStoppageTracker(30)
	tr.Record(3*time.Second, 15)
	assert.Equal(t, 12, tr.Payout())
	assert.Equal(t, 0, tr.Accrued())
	assert.Equal(t, 0, tr.Payout())
}
