package ir

// PrecisionKind identifies one of the abstract precision variants.
type PrecisionKind string

const (
	KindInteger  PrecisionKind = "integer"
	KindFixed    PrecisionKind = "fixed"
	KindXnor     PrecisionKind = "xnor"
	KindExponent PrecisionKind = "exponent"
)

// ValidPrecisionKinds lists the recognised abstract kinds.
var ValidPrecisionKinds = map[PrecisionKind]bool{
	KindInteger:  true,
	KindFixed:    true,
	KindXnor:     true,
	KindExponent: true,
}

// Precision describes the numeric precision of a value.
//
// The abstract variants are IntegerPrecision, FixedPrecision, XnorPrecision
// and ExponentPrecision. Backends may add their own implementations (for
// example a dialect-tagged precision); consumers must reject kinds they do
// not recognise instead of guessing.
type Precision interface {
	PrecisionKind() PrecisionKind
}

// RoundingMode is the quantization (rounding) mode of a fixed-point value.
// The empty string means unset.
type RoundingMode string

const (
	RoundingUnset     RoundingMode = ""
	RoundingRND       RoundingMode = "RND"
	RoundingRNDZero   RoundingMode = "RND_ZERO"
	RoundingRNDMinInf RoundingMode = "RND_MIN_INF"
	RoundingRNDInf    RoundingMode = "RND_INF"
	RoundingRNDConv   RoundingMode = "RND_CONV"
	RoundingTRN       RoundingMode = "TRN"
	RoundingTRNZero   RoundingMode = "TRN_ZERO"
)

// ValidRoundingModes defines allowed rounding modes (unset excluded).
var ValidRoundingModes = map[RoundingMode]bool{
	RoundingRND:       true,
	RoundingRNDZero:   true,
	RoundingRNDMinInf: true,
	RoundingRNDInf:    true,
	RoundingRNDConv:   true,
	RoundingTRN:       true,
	RoundingTRNZero:   true,
}

// SaturationMode is the overflow mode of a fixed-point value.
// The empty string means unset.
type SaturationMode string

const (
	SaturationUnset   SaturationMode = ""
	SaturationWrap    SaturationMode = "WRAP"
	SaturationSat     SaturationMode = "SAT"
	SaturationSatZero SaturationMode = "SAT_ZERO"
	SaturationSatSym  SaturationMode = "SAT_SYM"
)

// ValidSaturationModes defines allowed saturation modes (unset excluded).
var ValidSaturationModes = map[SaturationMode]bool{
	SaturationWrap:    true,
	SaturationSat:     true,
	SaturationSatZero: true,
	SaturationSatSym:  true,
}

// IntegerPrecision is a bounded integer of Width bits.
type IntegerPrecision struct {
	Width  int  `json:"width" yaml:"width"`
	Signed bool `json:"signed" yaml:"signed"`
}

func (IntegerPrecision) PrecisionKind() PrecisionKind { return KindInteger }

// FixedPrecision is a fixed-point number with Integer integer bits out of
// Width total bits. SaturationBits is only meaningful with a SaturationMode.
type FixedPrecision struct {
	Width          int            `json:"width" yaml:"width"`
	Integer        int            `json:"integer" yaml:"integer"`
	Signed         bool           `json:"signed" yaml:"signed"`
	RoundingMode   RoundingMode   `json:"rounding_mode,omitempty" yaml:"rounding_mode,omitempty"`
	SaturationMode SaturationMode `json:"saturation_mode,omitempty" yaml:"saturation_mode,omitempty"`
	SaturationBits *int           `json:"saturation_bits,omitempty" yaml:"saturation_bits,omitempty"`
}

func (FixedPrecision) PrecisionKind() PrecisionKind { return KindFixed }

// XnorPrecision is a single-bit binary value; the sign is encoded separately.
type XnorPrecision struct{}

func (XnorPrecision) PrecisionKind() PrecisionKind { return KindXnor }

// Width is always 1.
func (XnorPrecision) Width() int { return 1 }

// Signed is always false.
func (XnorPrecision) Signed() bool { return false }

// ExponentPrecision is an exponent-encoded value. Width and Signed describe
// the exponent field.
type ExponentPrecision struct {
	Width  int  `json:"width" yaml:"width"`
	Signed bool `json:"signed" yaml:"signed"`
}

func (ExponentPrecision) PrecisionKind() PrecisionKind { return KindExponent }

// Bits returns a pointer to n, for FixedPrecision.SaturationBits.
func Bits(n int) *int {
	return &n
}
