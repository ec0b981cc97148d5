package nn

import (
	"encoding/json"
	"fmt"
)

const (
	parameterBundleType = "mlp_parameters"
	momentumBundleType  = "mlp_momentum"
	bundleVersion       = 1
)

// ParameterBundle is the JSON envelope of a saved parameter set.
// The engine only encodes and decodes it; storing the bytes is up to the owner.
type ParameterBundle struct {
	Type       string         `json:"type"`
	Version    int            `json:"version"`
	Activation ActivationType `json:"activation"`
	Parameters ParameterSet   `json:"parameters"`
}

// MomentumBundle is the JSON envelope of a saved momentum state.
type MomentumBundle struct {
	Type     string        `json:"type"`
	Version  int           `json:"version"`
	Momentum MomentumState `json:"momentum"`
}

// MarshalParameterSet encodes a parameter set and the activation it was trained with.
func MarshalParameterSet(params ParameterSet, activation ActivationType) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to encode parameters: %w", err)
	}
	bundle := ParameterBundle{
		Type:       parameterBundleType,
		Version:    bundleVersion,
		Activation: activation,
		Parameters: params,
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters: %w", err)
	}
	return data, nil
}

// UnmarshalParameterSet decodes bytes produced by MarshalParameterSet and
// validates the decoded shapes.
func UnmarshalParameterSet(data []byte) (ParameterSet, ActivationType, error) {
	var bundle ParameterBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return ParameterSet{}, 0, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	if bundle.Type != parameterBundleType {
		return ParameterSet{}, 0, fmt.Errorf("invalid bundle type: expected %s, got %q", parameterBundleType, bundle.Type)
	}
	if bundle.Version != bundleVersion {
		return ParameterSet{}, 0, fmt.Errorf("unsupported bundle version %d", bundle.Version)
	}
	if err := bundle.Parameters.Validate(); err != nil {
		return ParameterSet{}, 0, fmt.Errorf("decoded parameters: %w", err)
	}
	if want := countParameters(bundle.Parameters.Layers); bundle.Parameters.TotalParameters != want {
		return ParameterSet{}, 0, fmt.Errorf("decoded parameters: total_parameters %d, layers hold %d: %w",
			bundle.Parameters.TotalParameters, want, ErrDimensionMismatch)
	}
	return bundle.Parameters, bundle.Activation, nil
}

// MarshalMomentumState encodes a momentum state. A nil state encodes as JSON null.
func MarshalMomentumState(state *MomentumState) ([]byte, error) {
	if state == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(MomentumBundle{
		Type:     momentumBundleType,
		Version:  bundleVersion,
		Momentum: *state,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal momentum: %w", err)
	}
	return data, nil
}

// UnmarshalMomentumState decodes bytes produced by MarshalMomentumState.
// JSON null decodes to a nil state.
func UnmarshalMomentumState(data []byte) (*MomentumState, error) {
	var bundle *MomentumBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal momentum: %w", err)
	}
	if bundle == nil {
		return nil, nil
	}
	if bundle.Type != momentumBundleType {
		return nil, fmt.Errorf("invalid bundle type: expected %s, got %q", momentumBundleType, bundle.Type)
	}
	if bundle.Version != bundleVersion {
		return nil, fmt.Errorf("unsupported bundle version %d", bundle.Version)
	}
	return &bundle.Momentum, nil
}
