package domain

import "time"

// SchedulingConfig represents slot generation settings.
// Supports a two-level hierarchy:
// 1. Barber-specific (barber_id set)
// 2. Shop-wide default (barber_id NULL)
type SchedulingConfig struct {
	ID                      int64
	BarberID                *int64 // NULL = shop-wide default
	SlotStepMinutes         int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsShopDefault returns true if this is the shop-wide configuration
func (c *SchedulingConfig) IsShopDefault() bool {
	return c.BarberID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance
// appointments can be made
func (c *SchedulingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}
