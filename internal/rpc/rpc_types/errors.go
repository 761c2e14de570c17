package rpc_types

import (
	"errors"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// RpcError represents an RPC error with code and message
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Type        string `json:"type"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes
const (
	// Universal errors
	RpcUNKNOWN          = -1
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603

	// General purpose errors
	RpcGENERAL           = 1
	RpcMISSING_COMMAND   = 2
	RpcCOMMAND_UNTRUSTED = 3
	RpcNO_CURRENT        = 4

	RpcNOT_STANDALONE = 10
	RpcSHUT_DOWN      = 11

	RpcLGR_NOT_FOUND = 15
	RpcNO_HISTORY    = 16

	RpcACT_NOT_FOUND = 19
	RpcTXN_NOT_FOUND = 24

	RpcSTREAM_MALFORMED    = 26
	RpcINVALID_API_VERSION = 38
	RpcINVALID_HASH        = 44
	RpcACT_MALFORMED       = 50
	RpcBAD_SECRET          = 55
	RpcTXN_MALFORMED       = 56

	RpcOBJECT_NOT_FOUND = 92
)

func NewRpcError(code int, error, errorType, message string) *RpcError {
	return &RpcError{
		Code:        code,
		ErrorString: error,
		Type:        errorType,
		Message:     message,
	}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "unknownCmd", "Unknown method: "+method)
}

func RpcErrorMissingCommand() *RpcError {
	return NewRpcError(RpcMISSING_COMMAND, "missingCommand", "missingCommand", "Missing command field")
}

func RpcErrorUntrusted(method string) *RpcError {
	return NewRpcError(RpcCOMMAND_UNTRUSTED, "commandUntrusted", "commandUntrusted",
		"Method '"+method+"' requires admin privileges")
}

func RpcErrorLgrNotFound(message string) *RpcError {
	return NewRpcError(RpcLGR_NOT_FOUND, "lgrNotFound", "lgrNotFound", message)
}

func RpcErrorTxnNotFound(message string) *RpcError {
	return NewRpcError(RpcTXN_NOT_FOUND, "txnNotFound", "txnNotFound", message)
}

func RpcErrorActMalformed(message string) *RpcError {
	return NewRpcError(RpcACT_MALFORMED, "actMalformed", "actMalformed", message)
}

func RpcErrorObjectNotFound(message string) *RpcError {
	return NewRpcError(RpcOBJECT_NOT_FOUND, "objectNotFound", "objectNotFound", message)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "internal", "internal", message)
}

func RpcErrorNotStandalone(message string) *RpcError {
	return NewRpcError(RpcNOT_STANDALONE, "notStandalone", "notStandalone", message)
}

func RpcErrorNoCurrent(message string) *RpcError {
	return NewRpcError(RpcNO_CURRENT, "noCurrent", "noCurrent", message)
}

func RpcErrorInvalidApiVersion(version string) *RpcError {
	return NewRpcError(RpcINVALID_API_VERSION, "invalidApiVersion", "invalidApiVersion", "Invalid API version: "+version)
}

func RpcErrorMissingField(field string) *RpcError {
	return RpcErrorInvalidParams("Missing field '" + field + "'.")
}

func RpcErrorInvalidField(field string) *RpcError {
	return RpcErrorInvalidParams("Invalid field '" + field + "'.")
}

func RpcErrorTxnMalformed(message string) *RpcError {
	return NewRpcError(RpcTXN_MALFORMED, "invalidTransaction", "invalidTransaction", message)
}

func RpcErrorBadSecret() *RpcError {
	return NewRpcError(RpcBAD_SECRET, "badSecret", "badSecret", "Secret does not match account.")
}

func RpcErrorStreamMalformed(message string) *RpcError {
	return NewRpcError(RpcSTREAM_MALFORMED, "malformedStream", "malformedStream", message)
}

// FromServiceError maps a ledger service error onto an RPC error.
func FromServiceError(err error) *RpcError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrInvalidArgument):
		return RpcErrorActMalformed(err.Error())
	case errors.Is(err, tx.ErrNotFound):
		return RpcErrorObjectNotFound(err.Error())
	case errors.Is(err, service.ErrLedgerNotFound):
		return RpcErrorLgrNotFound(err.Error())
	case errors.Is(err, service.ErrTxNotFound):
		return RpcErrorTxnNotFound(err.Error())
	case errors.Is(err, service.ErrNoHistory):
		return NewRpcError(RpcNO_HISTORY, "noHistory", "noHistory", err.Error())
	case errors.Is(err, service.ErrNotStandalone):
		return RpcErrorNotStandalone(err.Error())
	case errors.Is(err, service.ErrNotStarted):
		return RpcErrorNoCurrent(err.Error())
	}
	return RpcErrorInternal(err.Error())
}
