package vpd

import "fmt"

// ErrorKind is the wire error ordinal carried in an ACK response
// (`ACK [<ordinal>@<cmd_number>] {<opcode>} <message>`).
type ErrorKind int

const (
	KindNoError              ErrorKind = 0
	KindUnknownCommand       ErrorKind = 1
	KindCommandNotImplemented ErrorKind = 2
	KindTooManyArgs          ErrorKind = 3
	KindMissingParameter     ErrorKind = 4
	KindInvalidUri           ErrorKind = 5
	KindInvalidFilename      ErrorKind = 6

	// kindCount is the number of named kinds above (7) and doubles as
	// the sentinel ordinal `close` uses for its "goodbye" ACK.
	kindCount ErrorKind = 7

	// KindGoodbye is the sentinel used only by the `close` command's
	// final ACK.
	KindGoodbye ErrorKind = kindCount
)

// defaultMessages holds the human-readable text for each kind, used
// unless a handler supplies its own Detail.
var defaultMessages = map[ErrorKind]string{
	KindNoError:               "no error",
	KindUnknownCommand:        "unknown command",
	KindCommandNotImplemented: "command not implemented",
	KindTooManyArgs:           "too many arguments",
	KindMissingParameter:      "missing parameter",
	KindInvalidUri:            "the given URI is invalid",
	KindInvalidFilename:       "invalid filename",
	KindGoodbye:               "No error",
}

// AckError is the typed failure a handler (or the engine's own argument
// validation) returns. It implements error so handlers can still use
// ordinary Go error-handling idiom internally.
type AckError struct {
	Opcode string
	Kind   ErrorKind
	Detail string // overrides the default message when non-empty
}

func (e *AckError) Error() string {
	return fmt.Sprintf("ACK [%d@0] {%s} %s", e.Kind, e.Opcode, e.message())
}

func (e *AckError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return defaultMessages[e.Kind]
}

// newAckError builds an AckError with the default message for kind.
func newAckError(opcode string, kind ErrorKind) *AckError {
	return &AckError{Opcode: opcode, Kind: kind}
}

// kindLabels gives each ErrorKind a short, stable metric label distinct
// from its human-readable message.
var kindLabels = map[ErrorKind]string{
	KindNoError:               "no_error",
	KindUnknownCommand:        "unknown_command",
	KindCommandNotImplemented: "command_not_implemented",
	KindTooManyArgs:           "too_many_args",
	KindMissingParameter:      "missing_parameter",
	KindInvalidUri:            "invalid_uri",
	KindInvalidFilename:       "invalid_filename",
	KindGoodbye:               "goodbye",
}

// label returns kind's metric label.
func (k ErrorKind) label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return "unknown"
}
