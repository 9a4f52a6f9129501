package engine

import (
	"fmt"
	"math"
	"time"

	"parqueo-service/internal/domain/pricing"
	xerrors "parqueo-service/internal/pkg/errors"
)

// FeeBreakdown carries the settled figures for one stay.
type FeeBreakdown struct {
	BilledMinutes   int     `json:"billedMinutes"`
	OriginalFee     float64 `json:"originalFee"`
	DiscountPercent float64 `json:"discountPercent"`
	FinalFee        float64 `json:"finalFee"`
}

// billedMinutes converts a stay duration into whole billed minutes:
// any started minute counts in full, and negative durations bill as zero.
func billedMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	mins := int(d / time.Minute)
	if d%time.Minute > 0 {
		mins++
	}
	return mins
}

// ComputeFee prices a stay. The first hour bills as a flat minimum; past
// sixty minutes the whole stay bills per minute. VIP spaces multiply the
// base fee before rounding.
func ComputeFee(settings *pricing.Settings, vt pricing.VehicleType, duration time.Duration, vipStay bool) (float64, int, error) {
	rate, ok := settings.Rates[vt]
	if !ok {
		return 0, 0, fmt.Errorf("%w: no rate configured for vehicle type %q", xerrors.ErrConfiguration, vt)
	}
	mins := billedMinutes(duration)

	var fee float64
	if mins <= 60 {
		fee = rate.FirstHourMinFee
	} else {
		fee = float64(mins) * rate.MinutelyRate
	}
	if vipStay {
		fee *= settings.VIPMultiplier
	}
	fee = round2(fee)
	if fee < 0 {
		fee = 0
	}
	return fee, mins, nil
}

// ResolveDiscount decides the effective percentage. A discount code, when
// present, must match a known code exactly and then overrides any manual
// percentage. Manual percentages outside [0,100] are rejected.
func ResolveDiscount(code string, manualPercent float64) (float64, error) {
	if code != "" {
		pct, ok := pricing.DiscountCodes[code]
		if !ok {
			return 0, fmt.Errorf("%w: unknown discount code %q", xerrors.ErrValidation, code)
		}
		return pct, nil
	}
	if manualPercent < 0 || manualPercent > 100 {
		return 0, fmt.Errorf("%w: discount percent must be between 0 and 100", xerrors.ErrValidation)
	}
	return manualPercent, nil
}

// ApplyDiscount computes the final fee from the original fee and an
// effective percentage, never going below zero.
func ApplyDiscount(originalFee, percent float64) float64 {
	final := round2(originalFee - originalFee*percent/100)
	if final < 0 {
		return 0
	}
	return final
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
