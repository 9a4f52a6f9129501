package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/engine"
	xerrors "parqueo-service/internal/pkg/errors"
)

func TestComputeFee(t *testing.T) {
	settings := pricing.DefaultSettings()

	tests := []struct {
		name     string
		vt       pricing.VehicleType
		duration time.Duration
		vip      bool
		wantFee  float64
		wantMins int
	}{
		{"auto short stay bills flat minimum", pricing.VehicleAuto, 45 * time.Minute, false, 30, 45},
		{"auto exactly one hour still flat", pricing.VehicleAuto, 60 * time.Minute, false, 30, 60},
		{"auto one minute past the hour bills per minute", pricing.VehicleAuto, 61 * time.Minute, false, 30.5, 61},
		{"auto ninety minutes", pricing.VehicleAuto, 90 * time.Minute, false, 45, 90},
		{"started minute counts in full", pricing.VehicleAuto, 60*time.Minute + time.Second, false, 30.5, 61},
		{"zero duration bills the minimum", pricing.VehicleAuto, 0, false, 30, 0},
		{"negative duration bills the minimum", pricing.VehicleAuto, -5 * time.Minute, false, 30, 0},
		{"vip multiplies the base fee", pricing.VehicleAuto, 90 * time.Minute, true, 67.5, 90},
		{"vip on flat minimum", pricing.VehicleMoto, 30 * time.Minute, true, 27, 30},
		{"camioneta long stay", pricing.VehicleCamioneta, 2 * time.Hour, false, 84, 120},
		{"moto long stay", pricing.VehicleMoto, 100 * time.Minute, false, 30, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, mins, err := engine.ComputeFee(settings, tt.vt, tt.duration, tt.vip)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantMins, mins)
		})
	}
}

func TestComputeFee_MissingRate(t *testing.T) {
	settings := &pricing.Settings{VIPMultiplier: 1.5, Rates: map[pricing.VehicleType]pricing.Rate{}}
	_, _, err := engine.ComputeFee(settings, pricing.VehicleAuto, time.Hour, false)
	assert.ErrorIs(t, err, xerrors.ErrConfiguration)
}

func TestComputeFee_LongerStaysNeverCostLess(t *testing.T) {
	settings := pricing.DefaultSettings()
	prev := 0.0
	for mins := 1; mins <= 240; mins++ {
		fee, _, err := engine.ComputeFee(settings, pricing.VehicleAuto, time.Duration(mins)*time.Minute, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fee, prev, "fee dropped at %d minutes", mins)
		prev = fee
	}
}

func TestResolveDiscount(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		manual  float64
		want    float64
		wantErr error
	}{
		{"known code", "NITU10", 0, 10, nil},
		{"code overrides manual percent", "SAVE20", 50, 20, nil},
		{"half off code", "PROMO50", 0, 50, nil},
		{"unknown code rejected", "BOGUS", 0, 0, xerrors.ErrValidation},
		{"manual percent", "", 15, 15, nil},
		{"no discount", "", 0, 0, nil},
		{"manual above hundred rejected", "", 101, 0, xerrors.ErrValidation},
		{"negative manual rejected", "", -1, 0, xerrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.ResolveDiscount(tt.code, tt.manual)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	assert.Equal(t, 40.5, engine.ApplyDiscount(45, 10))
	assert.Equal(t, 22.5, engine.ApplyDiscount(45, 50))
	assert.Equal(t, 0.0, engine.ApplyDiscount(45, 100))
	assert.Equal(t, 45.0, engine.ApplyDiscount(45, 0))
	assert.Equal(t, 30.33, engine.ApplyDiscount(33.7, 10))
}
