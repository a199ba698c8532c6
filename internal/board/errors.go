package board

import "fmt"

// Configuration error codes.
const (
	CodeEmptyGrid       = "EMPTY_GRID"
	CodeEmptyRow        = "EMPTY_ROW"
	CodeRaggedRows      = "RAGGED_ROWS"
	CodeUnknownSymbol   = "UNKNOWN_SYMBOL"
	CodeNoPlayer        = "NO_PLAYER"
	CodeMultiplePlayers = "MULTIPLE_PLAYERS"
	CodeBadLink         = "BAD_LINK"
	CodeUnknownVariant  = "UNKNOWN_VARIANT"
)

// ConfigurationError reports a malformed map or board definition.
// It is only ever returned while a level is being loaded.
type ConfigurationError struct {
	Code    string
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
