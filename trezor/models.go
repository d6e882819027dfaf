package trezor

import (
	"context"
	"errors"
	"fmt"

	"github.com/q0jt/go-trezor/trezor/config"
	"github.com/q0jt/go-trezor/trezor/config/model"
)

var ErrUnknownModel = errors.New("model is not registered")

// Builtin returns the descriptors compiled into the package.
func Builtin() *config.ModelConfig {
	return &config.ModelConfig{
		Models: map[model.Model]*config.ModelLayout{
			model.T1B1: T1B1(),
		},
	}
}

// LoadModels evaluates the pkl module at path. An empty path returns Builtin.
// Every loaded descriptor is validated.
func LoadModels(ctx context.Context, path string) (*config.ModelConfig, error) {
	if path == "" {
		return Builtin(), nil
	}
	conf, err := config.LoadFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	for m, layout := range conf.Models {
		if err := Validate(layout); err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
	}
	return conf, nil
}

// Layout returns the descriptor registered for m.
func Layout(conf *config.ModelConfig, m model.Model) (*config.ModelLayout, error) {
	if conf == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, m)
	}
	layout, ok := conf.Models[m]
	if !ok || layout == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, m)
	}
	return layout, nil
}

// FindModelsByAddr returns the models other than origin whose firmware
// region starts at addr.
func FindModelsByAddr(conf *config.ModelConfig, origin model.Model, addr uint32) []model.Model {
	var models []model.Model
	for m, layout := range conf.Models {
		if m == origin {
			continue
		}
		if layout.FirmwareStart == addr {
			models = append(models, m)
		}
	}
	return models
}

// ParseModel converts an internal model name into a Model.
func ParseModel(name string) (model.Model, error) {
	var m model.Model
	if err := m.UnmarshalBinary([]byte(name)); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m, nil
}
