package consensus

import "fmt"

type ErrorCode string

const (
	TX_ERR_PARSE           ErrorCode = "TX_ERR_PARSE"
	TX_ERR_SIG_ENCODING    ErrorCode = "TX_ERR_SIG_ENCODING"
	TX_ERR_SIGHASH_TYPE    ErrorCode = "TX_ERR_SIGHASH_TYPE"
	TX_ERR_INPUT_INDEX     ErrorCode = "TX_ERR_INPUT_INDEX"
	TX_ERR_SCRIPT_TOO_LONG ErrorCode = "TX_ERR_SCRIPT_TOO_LONG"
)

type TxError struct {
	Code ErrorCode
	Msg  string
}

func (e *TxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func txerr(code ErrorCode, format string, args ...any) error {
	return &TxError{Code: code, Msg: fmt.Sprintf(format, args...)}
}
