package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown        ErrorCode = 1
	ErrCodeNotImplemented ErrorCode = 2

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 105
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidToken         ErrorCode = 120
	ErrCodeInvalidResolution    ErrorCode = 121

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeOutOfBounds           ErrorCode = 206

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound    ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 302
	ErrCodeUnexpectedShape      ErrorCode = 303

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeUnsupportedCounselor ErrorCode = 403
	ErrCodeVersionMismatch      ErrorCode = 404
	ErrCodeUnsupportedOracle    ErrorCode = 405
	ErrCodeAgentAlreadyExists   ErrorCode = 406
	ErrCodeAgentNotFound        ErrorCode = 407

	// Trading errors (500-599)
	ErrCodeOrderFailed      ErrorCode = 500
	ErrCodePositionNotFound ErrorCode = 501

	// Backtest errors (600-699)
	ErrCodeBacktestReportFailed ErrorCode = 609

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeFeedFailed            ErrorCode = 705
)
