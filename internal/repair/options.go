package repair

// Options controls which handlers and strategies an Engine wires up and
// how hard it tries before giving up. The zero value is not valid; use
// DefaultOptions.
type Options struct {
	// AutoRepair disables the engine outright when false: the driver runs
	// the strict parser once and returns whatever it says, good or bad.
	AutoRepair bool

	// AllowTrailingCommas enables the strategy that skips a comma whose
	// second following character is a closing brace or bracket.
	AllowTrailingCommas bool

	// AllowComments is reserved for future `//` and `/* */` comment
	// stripping. No handler or strategy currently consults it.
	AllowComments bool

	// AllowSingleQuotes enables transcoding '...'-quoted strings to
	// "...".
	AllowSingleQuotes bool

	// AllowUnquotedKeys enables rescuing a bare identifier standing in
	// for a quoted object key.
	AllowUnquotedKeys bool

	// MaxRepairAttempts bounds how many times the driver loop will apply
	// a handler or strategy before it gives up and reports failure,
	// guarding against an oscillating repair never reaching Root.
	MaxRepairAttempts int

	// StrictMode is reserved. No handler or strategy currently consults
	// it.
	StrictMode bool

	// AggressiveTruncationRepair is carried in the options but no handler,
	// strategy or Engine.Repair consults it: Engine.Repair never runs the
	// CloseScopes scan, whatever its value, and the truncation strategy
	// behaves the same either way.
	AggressiveTruncationRepair bool
}

// DefaultOptions returns the engine's default configuration: repair
// enabled, trailing commas and single quotes tolerated, unquoted keys
// left alone, and a generous attempt cap.
func DefaultOptions() Options {
	return Options{
		AutoRepair:                 true,
		AllowTrailingCommas:        true,
		AllowComments:              true,
		AllowSingleQuotes:          true,
		AllowUnquotedKeys:          false,
		MaxRepairAttempts:          1500,
		StrictMode:                 false,
		AggressiveTruncationRepair: true,
	}
}
