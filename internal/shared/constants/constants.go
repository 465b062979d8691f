package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyMerchantID   = "merchant_id"
	ContextKeyCredentialID = "api_credential_id"

	// Database table names
	TableMerchants         = "merchants"
	TableWallets           = "wallets"
	TableAPICredentials    = "api_credentials"
	TablePaymentRequests   = "payment_requests"
	TableChainTransactions = "chain_transactions"

	// Default values
	DefaultCurrency = "USDT"

	// Environments
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)
