package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func TestPickupSlots(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []string
	}{
		{"quarter to closing", at(17, 45), []string{"18:00"}},
		{"after closing", at(19, 0), []string{}},
		{"exactly closing", at(18, 0), []string{}},
		{"on a boundary excludes it", at(17, 0), []string{"17:30", "18:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickupSlots(tt.now))
		})
	}
}

func TestPickupSlotsBeforeOpening(t *testing.T) {
	slots := PickupSlots(at(7, 30))

	assert.Len(t, slots, 19)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "18:00", slots[len(slots)-1])
}

func TestIsPickupSlotAvailable(t *testing.T) {
	assert.True(t, IsPickupSlotAvailable("12:30", at(12, 10)))
	assert.False(t, IsPickupSlotAvailable("12:00", at(12, 10)))
	assert.False(t, IsPickupSlotAvailable("12:15", at(8, 0)))
	assert.False(t, IsPickupSlotAvailable("", at(8, 0)))
}

var sast = time.FixedZone("SAST", 2*60*60)

func TestBuilderPickupSlotsFollowShopZone(t *testing.T) {
	b := NewBuilder(Config{DeliveryFee: 25, ShopAddress: "12 Bree Street", Zone: sast})

	// 07:10 UTC is 09:10 at the shop
	slots := b.PickupSlots(at(7, 10))
	assert.Equal(t, "09:30", slots[0])

	// 16:30 UTC is 18:30 at the shop, after closing
	assert.Empty(t, b.PickupSlots(at(16, 30)))
	assert.NotEmpty(t, PickupSlots(at(16, 30)), "the same instant read as UTC still has slots")
}

func TestInZoneWithoutZoneKeepsTime(t *testing.T) {
	now := at(10, 0)

	assert.Equal(t, now, InZone(now, nil))
	assert.Equal(t, 12, InZone(now, sast).Hour())
}
