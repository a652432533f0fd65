package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"qrbill/pkg/bill"
	"qrbill/pkg/charset"
	"qrbill/pkg/testutil"
)

type ValidatorSuite struct {
	suite.Suite
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) assertSingleError(result *Result, field, key string) {
	s.T().Helper()
	s.Require().Len(result.Messages, 1, "messages: %+v", result.Messages)
	s.Equal(Error, result.Messages[0].Type)
	s.Equal(field, result.Messages[0].Field)
	s.Equal(key, result.Messages[0].Key)
}

func (s *ValidatorSuite) assertSingleWarning(result *Result, field, key string) {
	s.T().Helper()
	s.Require().Len(result.Messages, 1, "messages: %+v", result.Messages)
	s.Equal(Warning, result.Messages[0].Type)
	s.Equal(field, result.Messages[0].Field)
	s.Equal(key, result.Messages[0].Key)
}

func (s *ValidatorSuite) TestValidBills() {
	s.Run("qr iban with qr reference", func() {
		result := Validate(testutil.ExampleQRIBANBill())
		s.False(result.HasMessages(), "messages: %+v", result.Messages)
		s.True(result.IsValid())

		cleaned := result.CleanedBill
		s.Equal("CH4431999123000889012", cleaned.Account)
		s.Equal("210000000003139471430009017", cleaned.Reference)
		s.Equal(bill.ReferenceTypeQR, cleaned.ReferenceType)
		s.Equal("Rorschach", cleaned.Debtor.Town())
		s.Equal(bill.AddressStructured, cleaned.Debtor.Type())
		s.Len(cleaned.AlternativeSchemes, 2)
		s.Equal("Valid bill data", result.Description())
	})

	s.Run("open amount without debtor", func() {
		result := Validate(testutil.ExampleDonationBill())
		s.False(result.HasMessages(), "messages: %+v", result.Messages)
		s.Nil(result.CleanedBill.Amount)
		s.Nil(result.CleanedBill.Debtor)
		s.Equal(bill.ReferenceTypeNone, result.CleanedBill.ReferenceType)
	})

	s.Run("creditor reference", func() {
		result := Validate(testutil.ExampleCreditorReferenceBill())
		s.False(result.HasMessages(), "messages: %+v", result.Messages)
		s.Equal("CH7400700110006116002", result.CleanedBill.Account)
		s.Equal(bill.ReferenceTypeCreditor, result.CleanedBill.ReferenceType)
	})

	s.Run("combined addresses at maximum length", func() {
		result := Validate(testutil.ExampleCombinedAddressBill())
		s.False(result.HasMessages(), "messages: %+v", result.Messages)
		s.Equal(bill.AddressCombined, result.CleanedBill.Creditor.Type())
		s.Equal("US", result.CleanedBill.Debtor.CountryCode)
	})
}

func (s *ValidatorSuite) TestInputIsNotModified() {
	in := testutil.ExampleQRIBANBill()
	snapshot := in.Clone()

	result := Validate(in)

	s.True(in.Equal(snapshot))
	s.NotSame(in, result.CleanedBill)
	s.NotSame(in.Debtor, result.CleanedBill.Debtor)
}

func (s *ValidatorSuite) TestAccount() {
	tests := []struct {
		name    string
		account string
		key     string
	}{
		{name: "missing", account: "  ", key: KeyFieldValueMissing},
		{name: "wrong checksum", account: "CH4431999123000889013", key: KeyAccountIBANInvalid},
		{name: "foreign iban", account: "DE89370400440532013000", key: KeyAccountIBANNotFromCHOrLI},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			b := testutil.ExampleCreditorReferenceBill()
			b.Account = tt.account
			result := Validate(b)
			s.assertSingleError(result, FieldAccount, tt.key)
			s.Empty(result.CleanedBill.Account)
		})
	}

	s.Run("lowercase is normalized", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Account = "ch74 0070 0110 0061 1600 2"
		result := Validate(b)
		s.False(result.HasMessages())
		s.Equal("CH7400700110006116002", result.CleanedBill.Account)
	})
}

func (s *ValidatorSuite) TestCurrency() {
	s.Run("lowercase accepted", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Currency = " eur "
		result := Validate(b)
		s.False(result.HasMessages())
		s.Equal("EUR", result.CleanedBill.Currency)
	})

	s.Run("unsupported currency", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Currency = "USD"
		s.assertSingleError(Validate(b), FieldCurrency, KeyCurrencyNotCHFOrEUR)
	})

	s.Run("missing currency", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Currency = ""
		s.assertSingleError(Validate(b), FieldCurrency, KeyFieldValueMissing)
	})
}

func (s *ValidatorSuite) TestAmount() {
	s.Run("rounded half away from zero", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Amount = testutil.Amount("12.345")
		result := Validate(b)
		s.False(result.HasMessages())
		s.True(result.CleanedBill.Amount.Equal(decimal.RequireFromString("12.35")))
	})

	s.Run("zero is allowed", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Amount = testutil.Amount("0")
		s.False(Validate(b).HasMessages())
	})

	s.Run("maximum is allowed", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Amount = testutil.Amount("999999999.99")
		s.False(Validate(b).HasMessages())
	})

	s.Run("negative", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Amount = testutil.Amount("-0.01")
		result := Validate(b)
		s.assertSingleError(result, FieldAmount, KeyAmountOutsideValidRange)
		s.Nil(result.CleanedBill.Amount)
	})

	s.Run("too large", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Amount = testutil.Amount("1000000000")
		s.assertSingleError(Validate(b), FieldAmount, KeyAmountOutsideValidRange)
	})
}

func (s *ValidatorSuite) TestReference() {
	s.Run("qr iban without reference", func() {
		b := testutil.ExampleQRIBANBill()
		b.SetReference("")
		s.assertSingleError(Validate(b), FieldReference, KeyQRRefMissing)
	})

	s.Run("qr iban with creditor reference", func() {
		b := testutil.ExampleQRIBANBill()
		b.SetReference("RF18539007547034")
		s.assertSingleError(Validate(b), FieldReference, KeyCredRefInvalidUseForQRIBAN)
	})

	s.Run("regular iban with qr reference", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.SetReference("210000000003139471430009017")
		s.assertSingleError(Validate(b), FieldReference, KeyQRRefInvalidUseForNonQRIBAN)
	})

	s.Run("invalid qr reference reports only the reference", func() {
		b := testutil.ExampleQRIBANBill()
		b.SetReference("210000000003139471430009018")
		result := Validate(b)
		s.assertSingleError(result, FieldReference, KeyRefInvalid)
		s.Empty(result.CleanedBill.Reference)
		s.Equal(bill.ReferenceTypeNone, result.CleanedBill.ReferenceType)
	})

	s.Run("invalid creditor reference", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.SetReference("RF19539007547034")
		s.assertSingleError(Validate(b), FieldReference, KeyRefInvalid)
	})

	s.Run("short qr reference is zero padded", func() {
		b := testutil.ExampleQRIBANBill()
		b.SetReference("12347")
		result := Validate(b)
		s.False(result.HasMessages(), "messages: %+v", result.Messages)
		s.Equal("000000000000000000000012347", result.CleanedBill.Reference)
	})

	s.Run("explicit type must match", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Reference = "RF18539007547034"
		b.ReferenceType = bill.ReferenceTypeQR
		s.assertSingleError(Validate(b), FieldReferenceType, KeyRefTypeInvalid)
	})

	s.Run("empty type is derived", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Reference = "RF18 5390 0754 7034"
		b.ReferenceType = ""
		result := Validate(b)
		s.False(result.HasMessages())
		s.Equal("RF18539007547034", result.CleanedBill.Reference)
		s.Equal(bill.ReferenceTypeCreditor, result.CleanedBill.ReferenceType)
	})
}

func (s *ValidatorSuite) TestCreditor() {
	s.Run("empty creditor", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor = bill.Address{}
		result := Validate(b)

		var fields []string
		for _, m := range result.Messages {
			s.Equal(Error, m.Type)
			s.Equal(KeyFieldValueMissing, m.Key)
			fields = append(fields, m.Field)
		}
		s.Equal([]string{"creditor.name", "creditor.postalCode", "creditor.addressLine2", "creditor.town", "creditor.countryCode"}, fields)
	})

	s.Run("missing name", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor.Name = "  "
		result := Validate(b)
		s.assertSingleError(result, "creditor.name", KeyFieldValueMissing)
		s.Equal(`field "creditor.name" may not be empty (field_value_missing)`, result.Description())
	})

	s.Run("conflicting address", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor.SetAddressLine1("Rue du Lac 1268")
		result := Validate(b)

		var fields []string
		for _, m := range result.Messages {
			if m.Key == KeyAddressTypeConflict {
				fields = append(fields, m.Field)
			}
		}
		s.Equal([]string{"creditor.addressLine1", "creditor.street", "creditor.houseNo", "creditor.postalCode", "creditor.town"}, fields)
		s.Equal(bill.AddressConflicting, result.CleanedBill.Creditor.Type())
	})

	s.Run("combined address needs second line", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor = *bill.NewCombinedAddress("Robert Schneider AG", "Rue du Lac 1268", "", "CH")
		s.assertSingleError(Validate(b), "creditor.addressLine2", KeyFieldValueMissing)
	})

	s.Run("invalid country code", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor.CountryCode = "Schweiz"
		s.assertSingleError(Validate(b), "creditor.countryCode", KeyCountryCodeInvalid)
	})

	s.Run("country code uppercased", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor.CountryCode = "ch"
		result := Validate(b)
		s.False(result.HasMessages())
		s.Equal("CH", result.CleanedBill.Creditor.CountryCode)
	})

	s.Run("overlong fields are clipped", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor.SetTown(strings.Repeat("Biel", 10))
		result := Validate(b)
		s.assertSingleWarning(result, "creditor.town", KeyFieldValueClipped)
		s.Equal([]string{"35"}, result.Messages[0].Parameters)
		s.Equal(strings.Repeat("Biel", 10)[:35], result.CleanedBill.Creditor.Town())
		s.True(result.IsValid())
	})

	s.Run("unsupported characters replaced", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Creditor.Name = "Robert Schneider AG 🙂"
		result := Validate(b)
		s.assertSingleWarning(result, "creditor.name", KeyReplacedUnsupportedCharacters)
		s.Equal("Robert Schneider AG .", result.CleanedBill.Creditor.Name)
	})

	s.Run("character set of the bill is applied", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.CharacterSet = charset.ExtendedLatin
		b.Creditor.Name = "Łukasz Nowak"
		result := Validate(b)
		s.False(result.HasMessages())
		s.Equal("Łukasz Nowak", result.CleanedBill.Creditor.Name)
	})
}

func (s *ValidatorSuite) TestDebtor() {
	s.Run("empty debtor is dropped", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Debtor = &bill.Address{Name: " "}
		result := Validate(b)
		s.False(result.HasMessages())
		s.Nil(result.CleanedBill.Debtor)
	})

	s.Run("partial debtor is checked", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.Debtor = &bill.Address{Name: "Pia Rutschmann"}
		result := Validate(b)
		s.True(result.HasErrors())
		s.Equal("debtor.postalCode", result.Messages[0].Field)
	})
}

func (s *ValidatorSuite) TestAdditionalInformation() {
	s.Run("bill information must start with slashes", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.BillInformation = "S1/10/10201409"
		result := Validate(b)
		s.assertSingleError(result, FieldBillInformation, KeyBillInfoInvalid)
		s.Empty(result.CleanedBill.BillInformation)
	})

	s.Run("message too long", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.UnstructuredMessage = strings.Repeat("x", 141)
		result := Validate(b)
		s.assertSingleError(result, FieldUnstructuredMessage, KeyFieldValueTooLong)
		s.Equal([]string{"140"}, result.Messages[0].Parameters)
		s.Equal(`the value for field "unstructuredMessage" should not exceed a length of 140 characters (field_value_too_long)`,
			result.Description())
	})

	s.Run("combined too long", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.UnstructuredMessage = strings.Repeat("x", 70)
		b.BillInformation = "//" + strings.Repeat("y", 69)
		result := Validate(b)
		s.Require().Len(result.Messages, 2)
		s.Equal(FieldUnstructuredMessage, result.Messages[0].Field)
		s.Equal(FieldBillInformation, result.Messages[1].Field)
		s.Equal(KeyAdditionalInfoTooLong, result.Messages[0].Key)
		s.Empty(result.CleanedBill.UnstructuredMessage)
		s.Empty(result.CleanedBill.BillInformation)
	})

	s.Run("message with emoji", func() {
		b := testutil.ExampleCreditorReferenceBill()
		b.UnstructuredMessage = "Thanks 🙏 Lisa"
		result := Validate(b)
		s.assertSingleWarning(result, FieldUnstructuredMessage, KeyReplacedUnsupportedCharacters)
		s.Equal("Thanks . Lisa", result.CleanedBill.UnstructuredMessage)
	})
}

func (s *ValidatorSuite) TestAlternativeSchemes() {
	s.Run("more than two", func() {
		b := testutil.ExampleQRIBANBill()
		b.AlternativeSchemes = append(b.AlternativeSchemes, bill.AlternativeScheme{Name: "Third", Instruction: "ZZ;third"})
		result := Validate(b)
		s.assertSingleError(result, FieldAlternativeSchemes, KeyAltSchemeMaxExceeded)
		s.Len(result.CleanedBill.AlternativeSchemes, 2)
	})

	s.Run("empty entries dropped", func() {
		b := testutil.ExampleQRIBANBill()
		b.AlternativeSchemes = []bill.AlternativeScheme{{Name: " ", Instruction: ""}, {Instruction: " UV;UltraPay005;12345 "}}
		result := Validate(b)
		s.False(result.HasMessages())
		s.Equal([]bill.AlternativeScheme{{Instruction: "UV;UltraPay005;12345"}}, result.CleanedBill.AlternativeSchemes)
	})

	s.Run("instruction too long", func() {
		b := testutil.ExampleQRIBANBill()
		b.AlternativeSchemes = []bill.AlternativeScheme{{Name: "Long", Instruction: strings.Repeat("x", 101)}}
		result := Validate(b)
		s.assertSingleError(result, FieldAlternativeSchemes, KeyFieldValueTooLong)
		s.Empty(result.CleanedBill.AlternativeSchemes)
	})
}

func (s *ValidatorSuite) TestDescriptionJoinsErrors() {
	b := testutil.ExampleCreditorReferenceBill()
	b.Currency = "USD"
	b.Amount = testutil.Amount("-1")
	result := Validate(b)

	s.Equal(`currency should be "CHF" or "EUR" (currency_not_chf_or_eur); `+
		"amount should be between 0.00 and 999 999 999.99 (amount_outside_valid_range)", result.Description())

	err := &ValidationError{Result: result}
	s.Contains(err.Error(), "QR bill data is invalid: ")
}
