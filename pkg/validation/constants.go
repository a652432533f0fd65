package validation

// Message keys.
const (
	KeyCurrencyNotCHFOrEUR           = "currency_not_chf_or_eur"
	KeyAmountOutsideValidRange       = "amount_outside_valid_range"
	KeyAccountIBANNotFromCHOrLI      = "account_iban_not_from_ch_or_li"
	KeyAccountIBANInvalid            = "account_iban_invalid"
	KeyRefInvalid                    = "ref_invalid"
	KeyQRRefMissing                  = "qr_ref_missing"
	KeyCredRefInvalidUseForQRIBAN    = "cred_ref_invalid_use_for_qr_iban"
	KeyQRRefInvalidUseForNonQRIBAN   = "qr_ref_invalid_use_for_non_qr_iban"
	KeyRefTypeInvalid                = "ref_type_invalid"
	KeyFieldValueMissing             = "field_value_missing"
	KeyAddressTypeConflict           = "address_type_conflict"
	KeyCountryCodeInvalid            = "country_code_invalid"
	KeyFieldValueClipped             = "field_value_clipped"
	KeyFieldValueTooLong             = "field_value_too_long"
	KeyAdditionalInfoTooLong         = "additional_info_too_long"
	KeyReplacedUnsupportedCharacters = "replaced_unsupported_characters"
	KeyDataStructureInvalid          = "data_structure_invalid"
	KeyVersionUnsupported            = "version_unsupported"
	KeyCodingTypeUnsupported         = "coding_type_unsupported"
	KeyNumberInvalid                 = "number_invalid"
	KeyAltSchemeMaxExceeded          = "alt_scheme_max_exceed"
	KeyBillInfoInvalid               = "bill_info_invalid"
)

// Field names. Address fields are built from a root and a subfield, e.g.
// FieldCreditor + SubFieldTown.
const (
	FieldQRText              = "qrText"
	FieldVersion             = "version"
	FieldCodingType          = "codingType"
	FieldTrailer             = "trailer"
	FieldCurrency            = "currency"
	FieldAmount              = "amount"
	FieldAccount             = "account"
	FieldReferenceType       = "referenceType"
	FieldReference           = "reference"
	FieldCreditor            = "creditor"
	FieldDebtor              = "debtor"
	FieldUnstructuredMessage = "unstructuredMessage"
	FieldBillInformation     = "billInformation"
	FieldAlternativeSchemes  = "altSchemes"
)

const (
	SubFieldName         = ".name"
	SubFieldAddressLine1 = ".addressLine1"
	SubFieldAddressLine2 = ".addressLine2"
	SubFieldStreet       = ".street"
	SubFieldHouseNo      = ".houseNo"
	SubFieldPostalCode   = ".postalCode"
	SubFieldTown         = ".town"
	SubFieldCountryCode  = ".countryCode"
)

// Length limits in characters.
const (
	MaxNameLength                  = 70
	MaxStreetLength                = 70
	MaxHouseNoLength               = 16
	MaxPostalCodeLength            = 16
	MaxTownLength                  = 35
	MaxAddressLineLength           = 70
	MaxAdditionalInformationLength = 140
	MaxAlternativeSchemeLength     = 100
	MaxAlternativeSchemes          = 2
)
