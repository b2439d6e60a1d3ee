package model

import "time"

type SubscriptionPlan string

const (
	PlanTeam SubscriptionPlan = "team"
	PlanPro  SubscriptionPlan = "pro"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

// Subscription is a billing relationship for one workspace. ReferenceID holds
// the workspace public id. Seats is nil under unlimited-seat plans.
type Subscription struct {
	ID                     int64              `json:"id"`
	Plan                   SubscriptionPlan   `json:"plan"`
	Status                 SubscriptionStatus `json:"status"`
	Seats                  *int32             `json:"seats,omitempty"`
	UnlimitedSeats         bool               `json:"unlimited_seats"`
	PeriodStart            *time.Time         `json:"period_start,omitempty"`
	PeriodEnd              *time.Time         `json:"period_end,omitempty"`
	CancelAtPeriodEnd      *bool              `json:"cancel_at_period_end,omitempty"`
	ReferenceID            string             `json:"reference_id"`
	ExternalSubscriptionID *string            `json:"-"`
	ExternalCustomerID     *string            `json:"-"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// IsActive treats trialing subscriptions as active for seat accounting.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}
