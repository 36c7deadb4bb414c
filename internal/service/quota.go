// Package service implements the quota ledger, the arithmetic layer on top
// of the per-user quote allowance counters
package service

import (
	"errors"
	"time"

	"github.com/omerfatihko/quote-base/model"
	"gorm.io/gorm"
)

var (
	ErrQuotaExhausted = errors.New("quote allowance used up")
	ErrUserVanished   = errors.New("user no longer exists")
)

type Quota struct {
	Remaining int
	Total     int
}

// GetQuota returns the current allowance counters for a user. A missing user
// means the session outlived the account, reported as ErrUserVanished so the
// caller can invalidate the session.
func GetQuota(d *gorm.DB, email string) (Quota, error) {
	var u model.User

	err := d.
		Select("quotes_remaining", "total_quotes").
		Where("email = ?", email).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Quota{}, ErrUserVanished
		}

		return Quota{}, err
	}

	return Quota{Remaining: u.QuotesRemaining, Total: u.TotalQuotes}, nil
}

// ConsumeOne takes one unit off the user's remaining allowance and returns
// the new value. The decrement happens inside the UPDATE with a
// quotes_remaining > 0 guard, so two racing adds can never push the counter
// below zero.
func ConsumeOne(d *gorm.DB, email string) (int, error) {
	res := d.
		Model(model.User{}).
		Where("email = ? AND quotes_remaining > 0", email).
		UpdateColumns(map[string]any{
			"quotes_remaining": gorm.Expr("quotes_remaining - ?", 1),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// Either the allowance is used up or the account is gone
		if _, err := GetQuota(d, email); err != nil {
			return 0, err
		}

		return 0, ErrQuotaExhausted
	}

	q, err := GetQuota(d, email)
	if err != nil {
		return 0, err
	}

	return q.Remaining, nil
}

// RestoreOne gives one unit back after a quote deletion and returns the new
// remaining value. There is deliberately no ceiling clamp against
// total_quotes here, matching the behavior the service has always had.
func RestoreOne(d *gorm.DB, email string) (int, error) {
	res := d.
		Model(model.User{}).
		Where("email = ?", email).
		UpdateColumns(map[string]any{
			"quotes_remaining": gorm.Expr("quotes_remaining + ?", 1),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		return 0, ErrUserVanished
	}

	q, err := GetQuota(d, email)
	if err != nil {
		return 0, err
	}

	return q.Remaining, nil
}
