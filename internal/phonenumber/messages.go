package phonenumber

// Default message templates. They double as translation keys for the
// catalogs in platform/i18n, so changing one requires updating the catalogs.
const (
	IncorrectInputMessage             = `Invalid type: "{type}". A phone number must be a string.`
	InvalidInternationalFormatMessage = `International format must be "EPP" or "ITU".`
	InvalidInternationalMessage       = `{value} is not a valid international phone number.`
	InvalidNationalMessage            = `{value} is not a valid national phone number.`
)

// Construction error messages.
const (
	noChecksEnabledMessage    = "at least one of countries or international must be enabled"
	registryRequiredMessage   = "a country registry is required when countries are enabled"
	registryUnusedMessage     = "countries cannot be disabled when a country registry is supplied"
	invalidCountryMessage     = `"{country}" is not a valid country`
	emptyCountrySelectMessage = "at least one country must be selected"
)

// Placeholder names used in message params.
const (
	ParamType    = "type"
	ParamValue   = "value"
	ParamCountry = "country"
)
