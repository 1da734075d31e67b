// Package calculator implements the pure computation core: split policies,
// the group ledger fold and dashboard composition. Nothing in this package
// touches storage or mutates its inputs.
package calculator

import (
	"math"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/models"
)

// SplitPolicy is the rule used to divide an expense among participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "equal"
	SplitExact      SplitPolicy = "exact"
	SplitPercentage SplitPolicy = "percentage"
)

// Tolerance is the accepted absolute difference when comparing monetary sums.
// Sub-cent remainders from equal splits (e.g. 100/3) stay within it and are
// not redistributed.
const Tolerance = 0.01

// ExactShare is a caller-supplied verbatim share for the exact policy.
type ExactShare struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// PercentShare is a caller-supplied percentage for the percentage policy.
type PercentShare struct {
	UserID  string  `json:"userId"`
	Percent float64 `json:"percent"`
}

// Round2 rounds v to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeSplits produces per-member shares for the given policy.
// Shares always sum to total within Tolerance or a validation error is
// returned with no partial result.
func ComputeSplits(policy SplitPolicy, total float64, participants []string, exact []ExactShare, percents []PercentShare) ([]models.Split, error) {
	if total <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	switch policy {
	case SplitEqual:
		return EqualSplits(total, participants)
	case SplitExact:
		return ExactSplits(total, exact)
	case SplitPercentage:
		return PercentageSplits(total, percents)
	default:
		return nil, apperr.Validation("unsupported split policy %q, allowed: equal, exact, percentage", string(policy))
	}
}

// EqualSplits divides total evenly across participants, rounding each share
// to 2 decimals. The rounding remainder is absorbed by Tolerance.
func EqualSplits(total float64, participants []string) ([]models.Split, error) {
	if len(participants) == 0 {
		return nil, apperr.Validation("equal split requires at least one participant")
	}
	share := Round2(total / float64(len(participants)))
	if share < 0 {
		share = 0
	}
	splits := make([]models.Split, len(participants))
	for i, userID := range participants {
		splits[i] = models.Split{UserID: userID, Amount: share}
	}
	return splits, nil
}

// ExactSplits uses the supplied amounts verbatim. The sum must match total
// within Tolerance.
func ExactSplits(total float64, shares []ExactShare) ([]models.Split, error) {
	if len(shares) == 0 {
		return nil, apperr.Validation("exact split requires at least one share")
	}
	var sum float64
	seen := make(map[string]struct{}, len(shares))
	splits := make([]models.Split, len(shares))
	for i, s := range shares {
		if _, ok := seen[s.UserID]; ok {
			return nil, apperr.Validation("duplicate split for user %s", s.UserID)
		}
		seen[s.UserID] = struct{}{}
		sum += s.Amount
		splits[i] = models.Split{UserID: s.UserID, Amount: Round2(s.Amount)}
	}
	if math.Abs(sum-total) > Tolerance {
		return nil, apperr.Validation("sum of exact splits (%.2f) must equal the total amount (%.2f)", sum, total)
	}
	return splits, nil
}

// PercentageSplits computes each share as round(total * percent / 100, 2).
// Percentages must sum to 100 within Tolerance.
func PercentageSplits(total float64, shares []PercentShare) ([]models.Split, error) {
	if len(shares) == 0 {
		return nil, apperr.Validation("percentage split requires at least one share")
	}
	var totalPercent float64
	seen := make(map[string]struct{}, len(shares))
	splits := make([]models.Split, len(shares))
	for i, s := range shares {
		if _, ok := seen[s.UserID]; ok {
			return nil, apperr.Validation("duplicate split for user %s", s.UserID)
		}
		seen[s.UserID] = struct{}{}
		totalPercent += s.Percent
		splits[i] = models.Split{UserID: s.UserID, Amount: Round2(total * s.Percent / 100)}
	}
	if math.Abs(totalPercent-100) > Tolerance {
		return nil, apperr.Validation("percentages must sum to 100, got %.2f", totalPercent)
	}
	return splits, nil
}
