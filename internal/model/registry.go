package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ReturnRegistry creates return models from string parameters, useful for
// CLI overrides.
type ReturnRegistry struct {
	factories map[string]ReturnFactory
}

// ReturnFactory builds a return model from named parameters.
type ReturnFactory func(params map[string]string) (ReturnModel, error)

// NewReturnRegistry creates a registry with the built-in models registered.
func NewReturnRegistry() *ReturnRegistry {
	registry := &ReturnRegistry{
		factories: make(map[string]ReturnFactory),
	}

	registry.Register(FixedReturn.String(), createFixed)
	registry.Register(NormalReturn.String(), createNormal)
	registry.Register(BrownianReturn.String(), createBrownian)

	return registry
}

// Register adds a factory under name.
func (r *ReturnRegistry) Register(name string, factory ReturnFactory) {
	r.factories[name] = factory
}

// Create builds the model registered under name.
func (r *ReturnRegistry) Create(name string, params map[string]string) (ReturnModel, error) {
	factory, exists := r.factories[name]
	if !exists {
		return ReturnModel{}, newConfigError("return model", name, "not registered")
	}
	return factory(params)
}

// List returns the registered model names in sorted order.
func (r *ReturnRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseReturnSpec parses "name:key=value,key=value",
// e.g. "normal:mean=7,std_dev=15".
func (r *ReturnRegistry) ParseReturnSpec(spec string) (ReturnModel, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	paramsStr = strings.TrimSpace(paramsStr)

	params := make(map[string]string)
	if paramsStr != "" {
		for _, pair := range strings.Split(paramsStr, ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return ReturnModel{}, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	return r.Create(name, params)
}

func percentParam(model string, params map[string]string, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", model, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &ConfigError{Field: model + "." + key, Value: raw, Err: err}
	}
	return d.InexactFloat64(), nil
}

func createFixed(params map[string]string) (ReturnModel, error) {
	pct, err := percentParam("fixed", params, "percentage")
	if err != nil {
		return ReturnModel{}, err
	}
	return Fixed(pct), nil
}

func createNormal(params map[string]string) (ReturnModel, error) {
	mean, err := percentParam("normal", params, "mean")
	if err != nil {
		return ReturnModel{}, err
	}
	sd, err := percentParam("normal", params, "std_dev")
	if err != nil {
		return ReturnModel{}, err
	}
	if sd < 0 {
		return ReturnModel{}, newConfigError("normal.std_dev", params["std_dev"], "must not be negative")
	}
	return Normal(mean, sd), nil
}

func createBrownian(params map[string]string) (ReturnModel, error) {
	drift, err := percentParam("brownian", params, "drift")
	if err != nil {
		return ReturnModel{}, err
	}
	vol, err := percentParam("brownian", params, "volatility")
	if err != nil {
		return ReturnModel{}, err
	}
	if vol < 0 {
		return ReturnModel{}, newConfigError("brownian.volatility", params["volatility"], "must not be negative")
	}
	return Brownian(drift, vol), nil
}
