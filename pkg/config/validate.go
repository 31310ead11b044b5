package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and the rules that span sections.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: failed %q", fieldPath(fe), fe.Tag()))
		}
	}

	if c.Project.Path == "" {
		errs = append(errs, errors.New("project.path is required"))
	}
	if c.Store.Kind == StoreRedis && c.Store.Redis.Addr == "" {
		errs = append(errs, errors.New("store.redis.addr is required for the redis store"))
	}

	if t := c.Topology; t != nil && t.Topology() == nil && t.Kind != "" {
		errs = append(errs, fmt.Errorf("topology.%s section is required for kind %s", t.Kind, t.Kind))
	}

	if sw := c.Sweep; sw != nil {
		if sw.Setup == "" {
			errs = append(errs, errors.New("sweep.setup is required when no setup section is given"))
		}
		if err := domain.ValidateSweep(*sw, c.Requirements()); err != nil {
			errs = append(errs, fmt.Errorf("sweep: %w", err))
		}
	}
	if c.Solve && c.Setup == nil {
		errs = append(errs, errors.New("solve requires a setup section"))
	}

	for i, r := range c.Reports {
		if r.Type.IsFarField() && r.FarFieldSetup == "" {
			errs = append(errs, fmt.Errorf("reports[%d] %s: far_field_setup is required for %s", i, r.Name, r.Type))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func fieldPath(fe validator.FieldError) string {
	ns := strings.TrimPrefix(fe.Namespace(), "Config.")
	return strings.ReplaceAll(ns, "SetupSpec.", "")
}

// setupExtras are the extra setup keys with a known type.
type setupExtras struct {
	BasisOrder               *int     `mapstructure:"BasisOrder"`
	PercentRefinementPerPass *int     `mapstructure:"PercentRefinementPerPass"`
	MinimumConvergedPasses   *int     `mapstructure:"MinimumConvergedPasses"`
	MaximumDeltaS            *float64 `mapstructure:"MaximumDeltaS"`
}

// normalizeExtra type-checks the known keys of setup.extra_props and converts
// values such as "2" into the solver's numeric form. Unknown keys are kept verbatim.
func normalizeExtra(bag domain.PropertyBag) (domain.PropertyBag, error) {
	if len(bag) == 0 {
		return bag, nil
	}
	var ex setupExtras
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &ex,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(map[string]any(bag)); err != nil {
		return nil, fmt.Errorf("%w: setup.extra_props: %w", ErrInvalid, err)
	}

	out := bag.Clone()
	if ex.BasisOrder != nil {
		out[domain.PropBasisOrder] = *ex.BasisOrder
	}
	if ex.PercentRefinementPerPass != nil {
		out[domain.PropPercentRefinement] = *ex.PercentRefinementPerPass
	}
	if ex.MinimumConvergedPasses != nil {
		out[domain.PropMinimumConvergedPasses] = *ex.MinimumConvergedPasses
	}
	if ex.MaximumDeltaS != nil {
		out[domain.PropMaximumDeltaS] = *ex.MaximumDeltaS
	}
	return out, nil
}
