package cmd

// Exit codes for hitrelay CLI
const (
	// ExitSuccess indicates the request completed with a 2xx or 3xx status
	ExitSuccess = 0

	// ExitRequestFailure indicates the remote answered with a status >= 400
	ExitRequestFailure = 1

	// ExitStoreError indicates the execution store could not be opened or read
	ExitStoreError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
