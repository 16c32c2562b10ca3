package measurement

// Descriptor describes one entry of a tool's measurement catalog
type Descriptor struct {
	Name         string `json:"name" yaml:"name"`
	ID           int    `json:"id" yaml:"id"`
	Graphic      bool   `json:"graphic" yaml:"graphic"`           // Shown next to the shape on the image
	Table        bool   `json:"table" yaml:"table"`               // Shown in the measurement table
	Quantifiable bool   `json:"quantifiable" yaml:"quantifiable"` // Value can be exported as a number
}

// Catalog is an ordered list of measurement descriptors
type Catalog []Descriptor

// Names returns the descriptor names in catalog order
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name
	}
	return names
}

// Item is a computed measurement
type Item struct {
	Descriptor `yaml:",inline"`
	Value      float64 `json:"value" yaml:"value"`
	// Unit is the display unit symbol, empty for scores
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
	// Calibrated is true when Value was scaled by the calibration ratio and
	// Unit is the calibration's unit label
	Calibrated bool `json:"calibrated" yaml:"calibrated"`
}

// Degree is the unit symbol of angle measurements
const Degree = "°"

// NewCalibrated creates an item scaled by the calibration
func NewCalibrated(d Descriptor, pixels float64, cal Calibration) Item {
	return Item{Descriptor: d, Value: pixels * cal.Ratio, Unit: cal.Unit, Calibrated: true}
}

// NewAngle creates an angle item in degrees
func NewAngle(d Descriptor, degrees float64) Item {
	return Item{Descriptor: d, Value: degrees, Unit: Degree}
}

// NewScore creates a unit-less ratio item
func NewScore(d Descriptor, value float64) Item {
	return Item{Descriptor: d, Value: value}
}
