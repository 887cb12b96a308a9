package sim

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/pilot-engine/internal/kinematics"
)

// Vehicle holds the static parameters of a car type.
// The physics of acceleration and braking are encapsulated by the Kinem field;
// adding a new model only requires implementing kinematics.MotionModel and registering
// it in UnmarshalJSON below.
type Vehicle struct {
	Name  string                 `json:"name"`
	Kinem kinematics.MotionModel `json:"-"` // set by UnmarshalJSON
}

// StockVehicle is the default car.
var StockVehicle = Vehicle{Name: "octane", Kinem: kinematics.Default}

// kinematicsDisc is the minimum JSON structure needed to read the model discriminator.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// vehicleJSON is the raw JSON shape of a Vehicle, before the kinematics model is resolved.
type vehicleJSON struct {
	Name  string          `json:"name"`
	Kinem json.RawMessage `json:"kinematics"`
}

// UnmarshalJSON implements json.Unmarshaler for Vehicle.
// The "kinematics" field must contain a "model" discriminator key that selects
// the concrete implementation; the rest of the kinematics object is forwarded to
// that implementation's own unmarshaler.
//
// Supported models:
//   - "constant": fixed a_acc / a_boost / a_dcc rates.
//   - "throttle_curve": the game's throttle response plus boost_accel / brake_decel.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	var aux vehicleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Name = aux.Name

	if len(aux.Kinem) == 0 {
		return fmt.Errorf("vehicle %q: missing \"kinematics\" field", v.Name)
	}

	var disc kinematicsDisc
	if err := json.Unmarshal(aux.Kinem, &disc); err != nil {
		return fmt.Errorf("vehicle %q: reading kinematics model discriminator: %w", v.Name, err)
	}

	switch disc.Model {
	case kinematics.ConstantModelName:
		var k kinematics.ConstantAcceleration
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing constant kinematics: %w", v.Name, err)
		}
		v.Kinem = k
	case kinematics.ThrottleCurveModelName:
		k := kinematics.Default
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing throttle curve kinematics: %w", v.Name, err)
		}
		v.Kinem = k
	default:
		return fmt.Errorf("vehicle %q: unknown kinematics model %q", v.Name, disc.Model)
	}
	return nil
}

// MarshalJSON writes the vehicle in the form UnmarshalJSON reads.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	var model string
	switch v.Kinem.(type) {
	case kinematics.ConstantAcceleration:
		model = kinematics.ConstantModelName
	case kinematics.ThrottleCurve:
		model = kinematics.ThrottleCurveModelName
	default:
		return nil, fmt.Errorf("vehicle %q: unsupported kinematics model %T", v.Name, v.Kinem)
	}
	raw, err := json.Marshal(v.Kinem)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["model"] = model
	kin, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return json.Marshal(vehicleJSON{Name: v.Name, Kinem: kin})
}
