// Package validation checks QR bill data against the Swiss payment rules and
// produces a cleaned copy of it.
package validation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"qrbill/pkg/bill"
	"qrbill/pkg/charset"
	"qrbill/pkg/payments"
	strutil "qrbill/pkg/platform/strings"
)

var maxAmount = decimal.RequireFromString("999999999.99")

// Validate checks the bill and returns the findings together with a cleaned
// copy. The input is not modified.
//
// Cleaning trims values, treats blank values as absent, uppercases account,
// currency and country codes, replaces characters outside the bill's
// character set and clips address fields that are too long. Fields with an
// error are omitted from the cleaned bill.
func Validate(in *bill.Bill) *Result {
	v := &validator{
		in:     in,
		out:    &bill.Bill{CharacterSet: in.CharacterSet, Separator: in.Separator},
		result: &Result{},
	}

	v.validateAccount()
	v.validateCreditor()
	v.validateCurrency()
	v.validateAmount()
	v.validateDebtor()
	v.validateReference()
	v.validateAdditionalInformation()
	v.validateAlternativeSchemes()

	v.result.CleanedBill = v.out
	return v.result
}

type validator struct {
	in     *bill.Bill
	out    *bill.Bill
	result *Result
}

func (v *validator) validateAccount() {
	account := strutil.Trimmed(v.in.Account)
	if !v.mandatory(account, FieldAccount) {
		return
	}

	account = strings.ToUpper(strutil.WhitespaceRemoved(account))
	if !payments.IsValidIBAN(account) {
		v.result.Add(Error, FieldAccount, KeyAccountIBANInvalid)
		return
	}

	switch {
	case !strings.HasPrefix(account, "CH") && !strings.HasPrefix(account, "LI"):
		v.result.Add(Error, FieldAccount, KeyAccountIBANNotFromCHOrLI)
	case len(account) != 21:
		v.result.Add(Error, FieldAccount, KeyAccountIBANInvalid)
	default:
		v.out.Account = account
	}
}

func (v *validator) validateCreditor() {
	if creditor := v.validateAddress(&v.in.Creditor, FieldCreditor, true); creditor != nil {
		v.out.Creditor = *creditor
	}
}

func (v *validator) validateDebtor() {
	v.out.Debtor = v.validateAddress(v.in.Debtor, FieldDebtor, false)
}

func (v *validator) validateCurrency() {
	currency := strutil.Trimmed(v.in.Currency)
	if !v.mandatory(currency, FieldCurrency) {
		return
	}

	currency = strings.ToUpper(currency)
	if currency != "CHF" && currency != "EUR" {
		v.result.Add(Error, FieldCurrency, KeyCurrencyNotCHFOrEUR)
		return
	}
	v.out.Currency = currency
}

func (v *validator) validateAmount() {
	if v.in.Amount == nil {
		return
	}

	amount := v.in.Amount.Round(2)
	if amount.IsNegative() || amount.GreaterThan(maxAmount) {
		v.result.Add(Error, FieldAmount, KeyAmountOutsideValidRange)
		return
	}
	v.out.Amount = &amount
}

func (v *validator) validateReference() {
	account := v.out.Account
	isValidAccount := account != ""
	isQRIBAN := isValidAccount && payments.IsQRIBAN(account)

	v.out.ReferenceType = bill.ReferenceTypeNone
	hasReferenceError := false
	if reference := strutil.Trimmed(v.in.Reference); reference != "" {
		reference = strutil.WhitespaceRemoved(reference)
		if payments.IsNumeric(reference) {
			v.validateQRReference(reference)
		} else {
			v.validateISOReference(reference)
		}
		hasReferenceError = v.out.Reference == ""
	}

	switch {
	case isQRIBAN:
		if v.out.ReferenceType == bill.ReferenceTypeNone && !hasReferenceError {
			v.result.Add(Error, FieldReference, KeyQRRefMissing)
		} else if v.out.ReferenceType == bill.ReferenceTypeCreditor {
			v.result.Add(Error, FieldReference, KeyCredRefInvalidUseForQRIBAN)
		}
	case isValidAccount:
		if v.out.ReferenceType == bill.ReferenceTypeQR {
			v.result.Add(Error, FieldReference, KeyQRRefInvalidUseForNonQRIBAN)
		}
	}
}

func (v *validator) validateQRReference(reference string) {
	if n := len(reference); n < 27 {
		reference = strings.Repeat("0", 27-n) + reference
	}

	if !payments.IsValidQRReference(reference) {
		v.result.Add(Error, FieldReference, KeyRefInvalid)
		return
	}
	v.setReference(reference, bill.ReferenceTypeQR)
}

func (v *validator) validateISOReference(reference string) {
	if !payments.IsValidISO11649Reference(reference) {
		v.result.Add(Error, FieldReference, KeyRefInvalid)
		return
	}
	v.setReference(reference, bill.ReferenceTypeCreditor)
}

// setReference stores a valid reference. A reference type supplied with the
// input must agree with the kind of reference.
func (v *validator) setReference(reference string, referenceType bill.ReferenceType) {
	v.out.Reference = reference
	v.out.ReferenceType = referenceType
	if v.in.ReferenceType != "" && v.in.ReferenceType != referenceType {
		v.result.Add(Error, FieldReferenceType, KeyRefTypeInvalid)
	}
}

func (v *validator) validateAdditionalInformation() {
	billInformation := strutil.Trimmed(v.in.BillInformation)
	message := strutil.Trimmed(v.in.UnstructuredMessage)

	if billInformation != "" && (!strings.HasPrefix(billInformation, "//") || strutil.CountRunes(billInformation) < 4) {
		v.result.Add(Error, FieldBillInformation, KeyBillInfoInvalid)
		billInformation = ""
	}

	switch {
	case billInformation == "" && message == "":
		return
	case billInformation == "":
		message = v.cleaned(message, FieldUnstructuredMessage)
		if v.validateLength(message, MaxAdditionalInformationLength, FieldUnstructuredMessage) {
			v.out.UnstructuredMessage = message
		}
	case message == "":
		billInformation = v.cleaned(billInformation, FieldBillInformation)
		if v.validateLength(billInformation, MaxAdditionalInformationLength, FieldBillInformation) {
			v.out.BillInformation = billInformation
		}
	default:
		billInformation = v.cleaned(billInformation, FieldBillInformation)
		message = v.cleaned(message, FieldUnstructuredMessage)

		if strutil.CountRunes(billInformation)+strutil.CountRunes(message) > MaxAdditionalInformationLength {
			v.result.Add(Error, FieldUnstructuredMessage, KeyAdditionalInfoTooLong)
			v.result.Add(Error, FieldBillInformation, KeyAdditionalInfoTooLong)
			return
		}
		v.out.UnstructuredMessage = message
		v.out.BillInformation = billInformation
	}
}

func (v *validator) validateAlternativeSchemes() {
	var schemes []bill.AlternativeScheme
	for _, scheme := range v.in.AlternativeSchemes {
		cleaned := bill.AlternativeScheme{
			Name:        strutil.Trimmed(scheme.Name),
			Instruction: strutil.Trimmed(scheme.Instruction),
		}
		if cleaned.Name == "" && cleaned.Instruction == "" {
			continue
		}
		if v.validateLength(cleaned.Instruction, MaxAlternativeSchemeLength, FieldAlternativeSchemes) {
			schemes = append(schemes, cleaned)
		}
	}

	if len(schemes) > MaxAlternativeSchemes {
		v.result.Add(Error, FieldAlternativeSchemes, KeyAltSchemeMaxExceeded)
		schemes = schemes[:MaxAlternativeSchemes]
	}
	v.out.AlternativeSchemes = schemes
}

func (v *validator) validateAddress(in *bill.Address, root string, mandatory bool) *bill.Address {
	out := v.cleanedPerson(in, root)
	if out == nil {
		if mandatory {
			for _, sub := range []string{SubFieldName, SubFieldPostalCode, SubFieldAddressLine2, SubFieldTown, SubFieldCountryCode} {
				v.result.Add(Error, root+sub, KeyFieldValueMissing)
			}
		}
		return nil
	}

	if out.Type() == bill.AddressConflicting {
		v.conflictErrors(out, root)
	}

	v.checkMandatoryAddressFields(out, root)

	if out.CountryCode != "" && (len(out.CountryCode) != 2 || !payments.IsAlpha(out.CountryCode)) {
		v.result.Add(Error, root+SubFieldCountryCode, KeyCountryCodeInvalid)
	}

	v.clipAddressFields(out, root)
	return out
}

// cleanedPerson returns a cleaned copy of the address, or nil if it carries
// neither a name, a country code nor any layout field.
func (v *validator) cleanedPerson(in *bill.Address, root string) *bill.Address {
	if in == nil {
		return nil
	}

	out := &bill.Address{
		Name:        v.cleaned(in.Name, root+SubFieldName),
		CountryCode: strutil.Trimmed(in.CountryCode),
	}
	v.setCleaned(in.AddressLine1(), root+SubFieldAddressLine1, out.SetAddressLine1)
	v.setCleaned(in.AddressLine2(), root+SubFieldAddressLine2, out.SetAddressLine2)
	v.setCleaned(in.Street(), root+SubFieldStreet, out.SetStreet)
	v.setCleaned(in.HouseNo(), root+SubFieldHouseNo, out.SetHouseNo)
	v.setCleaned(in.PostalCode(), root+SubFieldPostalCode, out.SetPostalCode)
	v.setCleaned(in.Town(), root+SubFieldTown, out.SetTown)

	if out.Name == "" && out.CountryCode == "" && out.Type() == bill.AddressUndetermined {
		return nil
	}
	return out
}

func (v *validator) setCleaned(value, field string, set func(string)) {
	if cleaned := v.cleaned(value, field); cleaned != "" {
		set(cleaned)
	}
}

func (v *validator) conflictErrors(a *bill.Address, root string) {
	fields := []struct {
		value string
		sub   string
	}{
		{a.AddressLine1(), SubFieldAddressLine1},
		{a.AddressLine2(), SubFieldAddressLine2},
		{a.Street(), SubFieldStreet},
		{a.HouseNo(), SubFieldHouseNo},
		{a.PostalCode(), SubFieldPostalCode},
		{a.Town(), SubFieldTown},
	}
	for _, f := range fields {
		if f.value != "" {
			v.result.Add(Error, root+f.sub, KeyAddressTypeConflict)
		}
	}
}

func (v *validator) checkMandatoryAddressFields(a *bill.Address, root string) {
	v.mandatory(a.Name, root+SubFieldName)

	t := a.Type()
	if t == bill.AddressStructured || t == bill.AddressUndetermined {
		v.mandatory(a.PostalCode(), root+SubFieldPostalCode)
		v.mandatory(a.Town(), root+SubFieldTown)
	}
	if t == bill.AddressCombined || t == bill.AddressUndetermined {
		v.mandatory(a.AddressLine2(), root+SubFieldAddressLine2)
	}
	v.mandatory(a.CountryCode, root+SubFieldCountryCode)
}

// clipAddressFields shortens overlong fields of the layout in use and
// uppercases the country code.
func (v *validator) clipAddressFields(a *bill.Address, root string) {
	a.Name = v.clipped(a.Name, MaxNameLength, root+SubFieldName)

	switch a.Type() {
	case bill.AddressStructured:
		a.SetStreet(v.clipped(a.Street(), MaxStreetLength, root+SubFieldStreet))
		a.SetHouseNo(v.clipped(a.HouseNo(), MaxHouseNoLength, root+SubFieldHouseNo))
		a.SetPostalCode(v.clipped(a.PostalCode(), MaxPostalCodeLength, root+SubFieldPostalCode))
		a.SetTown(v.clipped(a.Town(), MaxTownLength, root+SubFieldTown))
	case bill.AddressCombined:
		a.SetAddressLine1(v.clipped(a.AddressLine1(), MaxAddressLineLength, root+SubFieldAddressLine1))
		a.SetAddressLine2(v.clipped(a.AddressLine2(), MaxAddressLineLength, root+SubFieldAddressLine2))
	}

	a.CountryCode = strings.ToUpper(a.CountryCode)
}

func (v *validator) mandatory(value, field string) bool {
	if value != "" {
		return true
	}
	v.result.Add(Error, field, KeyFieldValueMissing)
	return false
}

func (v *validator) validateLength(value string, maxLength int, field string) bool {
	if strutil.CountRunes(value) <= maxLength {
		return true
	}
	v.result.Add(Error, field, KeyFieldValueTooLong, strconv.Itoa(maxLength))
	return false
}

func (v *validator) clipped(value string, maxLength int, field string) string {
	clipped, ok := strutil.Clipped(value, maxLength)
	if ok {
		v.result.Add(Warning, field, KeyFieldValueClipped, strconv.Itoa(maxLength))
	}
	return clipped
}

func (v *validator) cleaned(value, field string) string {
	result := charset.Clean(value, v.in.CharacterSet, true)
	if result.Replaced {
		v.result.Add(Warning, field, KeyReplacedUnsupportedCharacters)
	}
	return result.Text
}
