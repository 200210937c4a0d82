package validate

// Violation reasons are fixed strings (or fixed formats) so reports can
// be aggregated by reason and tests can assert exact text.
const (
	ReasonInvalidPersonnummerFormat = "Invalid personnummer format"
	ReasonInvalidCheckDigit         = "Invalid personnummer check digit"
	ReasonInvalidBirthDate          = "Invalid personnummer date"
	ReasonMissingCountry            = "Missing country"
	ReasonAddressMissingComma       = "Invalid address format: missing comma"
	ReasonMissingPostalCode         = "Missing postal code"
	ReasonMissingCity               = "Missing city"
	ReasonMissingGuardianInfo       = "Missing guardian information for minor"
	ReasonInvalidGuardianInfo       = "Invalid guardian information"
	ReasonAgeOutOfRange             = "Customer age outside allowed range"
	ReasonInvalidPhone              = "Cannot standardize phone number"
	ReasonInvalidAccountNumber      = "Invalid bank account format"

	ReasonCurrencyRequired        = "Currency is required"
	ReasonAccountsRequired        = "Both sender and receiver accounts are required"
	ReasonTransactionTypeRequired = "Transaction type is required"
	ReasonTimestampRequired       = "Transaction timestamp is required"
	ReasonInvalidTimestamp        = "Invalid timestamp format"
	ReasonBelowMinimumAmount      = "Amount below minimum"
	ReasonOverPrivateCeiling      = "Amount exceeds private account limit"
	ReasonOverBusinessCeiling     = "Amount exceeds business account limit"
	ReasonOverInternationalLimit  = "Amount exceeds international transfer limit"
	ReasonUnsupportedCurrency     = "Unsupported currency"
	ReasonInvalidSenderAccount    = "Invalid sender account format"
	ReasonInvalidReceiverAccount  = "Invalid receiver account format"
	ReasonUnknownTransactionType  = "Unknown transaction type"
	ReasonTooManyDailyTransfers   = "Daily transfer count exceeded"
	ReasonTransfersTooFrequent    = "Transfers too close together"
)
