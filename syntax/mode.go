package syntax

// ProcessingMode selects between JSON-LD 1.0 and 1.1 algorithm behavior.
type ProcessingMode string

const (
	// ModeJSONLD10 is the legacy JSON-LD 1.0 processing mode.
	ModeJSONLD10 ProcessingMode = "json-ld-1.0"
	// ModeJSONLD11 is the JSON-LD 1.1 processing mode (the default).
	ModeJSONLD11 ProcessingMode = "json-ld-1.1"
)

// Direction is a base text direction.
type Direction string

const (
	// DirectionNone means no base direction is set.
	DirectionNone Direction = ""
	// DirectionLTR is left-to-right.
	DirectionLTR Direction = "ltr"
	// DirectionRTL is right-to-left.
	DirectionRTL Direction = "rtl"
	// DirectionNull explicitly clears an inherited direction.
	DirectionNull Direction = "@null"
)

// ParseDirection validates a @direction string value.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "ltr":
		return DirectionLTR, true
	case "rtl":
		return DirectionRTL, true
	default:
		return DirectionNone, false
	}
}

// CurrentVersion is the JSON-LD version accepted in @version entries.
const CurrentVersion = 1.1
