package domain_test

import (
	"testing"

	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSweep(t *testing.T) {
	discrete := domain.SweepSpec{Name: "S", Kind: domain.SweepDiscrete, SaveFields: true}
	fast := domain.SweepSpec{Name: "S", Kind: domain.SweepFast, SaveFields: true}
	interp := domain.SweepSpec{Name: "S", Kind: domain.SweepInterpolating}
	noFields := domain.SweepSpec{Name: "S", Kind: domain.SweepDiscrete}

	tests := []struct {
		name    string
		sweep   domain.SweepSpec
		req     domain.SweepRequirements
		wantErr bool
	}{
		{"ported interpolating is fine", interp, domain.SweepRequirements{}, false},
		{"portless discrete with fields", discrete, domain.SweepRequirements{Portless: true}, false},
		{"portless fast with fields", fast, domain.SweepRequirements{Portless: true}, false},
		{"portless interpolating rejected", interp, domain.SweepRequirements{Portless: true}, true},
		{"portless without fields rejected", noFields, domain.SweepRequirements{Portless: true}, true},
		{"far field interpolating rejected", interp, domain.SweepRequirements{FarField: true}, true},
		{"far field discrete with fields", discrete, domain.SweepRequirements{FarField: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateSweep(tt.sweep, tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrIncompatibleSweep)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupSpec_Props(t *testing.T) {
	spec := domain.SetupSpec{
		Name:                   "Setup_24G",
		Frequency:              "24GHz",
		MaximumPasses:          10,
		DeltaS:                 0.01,
		MinimumConvergedPasses: 2,
		Extra:                  domain.PropertyBag{"BasisOrder": 1},
	}

	props := spec.Props()
	assert.Equal(t, "24GHz", props[domain.PropFrequency])
	assert.Equal(t, 10, props[domain.PropMaximumPasses])
	assert.Equal(t, 0.01, props[domain.PropDeltaS])
	assert.Equal(t, 2, props[domain.PropMinimumConvergedPasses])
	assert.Equal(t, 1, props["BasisOrder"])
	assert.NotContains(t, props, domain.PropMaximumDeltaS, "unset optional keys stay with solver defaults")
}

func TestParseSweepKind(t *testing.T) {
	k, err := domain.ParseSweepKind("fast")
	require.NoError(t, err)
	assert.Equal(t, domain.SweepFast, k)

	_, err = domain.ParseSweepKind("adaptive")
	assert.Error(t, err)
}

func TestPropertyBag_SelectAndDiff(t *testing.T) {
	bag := domain.PropertyBag{"Frequency": "24GHz", "MaximumPasses": "10", "Other": true}

	sel := bag.Select([]string{"Frequency", "DeltaS", "MaximumPasses"})
	assert.Equal(t, domain.PropertyBag{"Frequency": "24GHz", "MaximumPasses": "10"}, sel)

	diff := bag.Diff(domain.PropertyBag{"Frequency": "24GHz", "MaximumPasses": 12, "DeltaS": 0.02})
	assert.Equal(t, []string{"DeltaS", "MaximumPasses"}, diff)

	assert.Empty(t, bag.Diff(domain.PropertyBag{"MaximumPasses": 10}), "printed values compare equal")
}
