// Package cloud holds the device parameter model exposed to remote
// controllers: a node with one device whose typed parameters can be
// written by clients and acknowledged by the firmware.
package cloud

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownParam = errors.New("unknown parameter")
	ErrKindMismatch = errors.New("parameter kind mismatch")
)

// Parameter names.
const (
	Master      = "Master"
	Follow      = "Follow"
	Pan         = "Pan"
	Tilt        = "Tilt"
	Orientation = "Orientation"
)

// Joystick geometry shared by Pan and Tilt.
const (
	AxisMin  = 0
	AxisMax  = 4095
	Center   = 2048
	Deadband = 200
)

const (
	NodeName   = "PanTilt Node"
	NodeType   = "Controller"
	DeviceName = "Camera Control"
	DeviceType = "Camera"
)

// UIType hints how a client should render a parameter.
type UIType string

const (
	UIToggle   UIType = "toggle"
	UISlider   UIType = "slider"
	UIDropdown UIType = "dropdown"
)

// Param describes one device parameter.
type Param struct {
	Name    string   `json:"name"`
	UI      UIType   `json:"ui"`
	Kind    Kind     `json:"-"`
	Type    string   `json:"type"`
	Default Value    `json:"default"`
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	Step    int      `json:"step,omitempty"`
	Valid   []string `json:"valid,omitempty"`
}

// Device is a set of typed parameters and their current values.
type Device struct {
	Name string `json:"name"`
	Type string `json:"type"`

	mu     sync.RWMutex
	order  []string
	params map[string]Param
	values map[string]Value
}

// Description is the JSON form of a node and its device.
type Description struct {
	Node   string  `json:"node"`
	Type   string  `json:"type"`
	Device string  `json:"device"`
	Params []Param `json:"params"`
}

// NewDevice creates an empty device.
func NewDevice(name, typ string) *Device {
	return &Device{
		Name:   name,
		Type:   typ,
		params: make(map[string]Param),
		values: make(map[string]Value),
	}
}

// AddParam registers p and sets its current value to the default.
func (d *Device) AddParam(p Param) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.params[p.Name]; ok {
		return fmt.Errorf("parameter %q already registered", p.Name)
	}
	if p.Kind == KindInvalid {
		return fmt.Errorf("parameter %q has no kind", p.Name)
	}
	if p.Default.Kind != p.Kind {
		return fmt.Errorf("parameter %q: default is %v, want %v", p.Name, p.Default.Kind, p.Kind)
	}
	p.Type = p.Kind.String()
	d.order = append(d.order, p.Name)
	d.params[p.Name] = p
	d.values[p.Name] = p.Default
	return nil
}

// Validate checks a client write. Ints are clamped to the parameter bounds.
func (d *Device) Validate(name string, v Value) (Value, error) {
	d.mu.RLock()
	p, ok := d.params[name]
	d.mu.RUnlock()
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if v.Kind != p.Kind {
		return Value{}, fmt.Errorf("%w: %s wants %v, got %v", ErrKindMismatch, name, p.Kind, v.Kind)
	}
	if p.Kind == KindInt && p.Max > p.Min {
		if v.I < p.Min {
			v.I = p.Min
		}
		if v.I > p.Max {
			v.I = p.Max
		}
	}
	return v, nil
}

// Update stores an acknowledged value.
func (d *Device) Update(name string, v Value) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if v.Kind != p.Kind {
		return fmt.Errorf("%w: %s wants %v, got %v", ErrKindMismatch, name, p.Kind, v.Kind)
	}
	d.values[name] = v
	return nil
}

// Value returns the current value of name.
func (d *Device) Value(name string) (Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.values[name]
	return v, ok
}

// Values returns a copy of all current values.
func (d *Device) Values() map[string]Value {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]Value, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Params returns the parameters in registration order.
func (d *Device) Params() []Param {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Param, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.params[name])
	}
	return out
}

// Describe returns the node description served to clients.
func (d *Device) Describe() Description {
	return Description{
		Node:   NodeName,
		Type:   NodeType,
		Device: d.Name,
		Params: d.Params(),
	}
}

// StandardDevice builds the camera control device with its five parameters.
func StandardDevice() *Device {
	d := NewDevice(DeviceName, DeviceType)
	params := []Param{
		{Name: Master, UI: UIToggle, Kind: KindBool, Default: Bool(true)},
		{Name: Follow, UI: UIToggle, Kind: KindBool, Default: Bool(false)},
		{Name: Pan, UI: UISlider, Kind: KindInt, Default: Int(Center), Min: AxisMin, Max: AxisMax, Step: 1},
		{Name: Tilt, UI: UISlider, Kind: KindInt, Default: Int(Center), Min: AxisMin, Max: AxisMax, Step: 1},
		{Name: Orientation, UI: UIDropdown, Kind: KindString, Default: String("LANDSCAPE"), Valid: []string{"PORTRAIT", "LANDSCAPE"}},
	}
	for _, p := range params {
		if err := d.AddParam(p); err != nil {
			panic(err)
		}
	}
	return d
}
