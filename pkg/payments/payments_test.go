package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidIBAN(t *testing.T) {
	tests := []struct {
		name  string
		iban  string
		valid bool
	}{
		{name: "swiss iban", iban: "CH5800791123000889012", valid: true},
		{name: "grouped with irregular spaces", iban: "CH44 3199 9123 0008  89012", valid: true},
		{name: "lowercase", iban: "ch4431999123000889012", valid: true},
		{name: "foreign iban", iban: "DE89370400440532013000", valid: true},
		{name: "liechtenstein iban", iban: "LI1008800000020176306", valid: true},
		{name: "reserved check digits 00", iban: "CH0031999123000889012", valid: false},
		{name: "wrong check digits", iban: "CH1234567890123456789", valid: false},
		{name: "too short", iban: "CH44", valid: false},
		{name: "non alphanumeric", iban: "CH44-3199-9123-0008-8901-2", valid: false},
		{name: "digits in country code", iban: "1H4431999123000889012", valid: false},
		{name: "letters in check digits", iban: "CHA431999123000889012", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidIBAN(tt.iban))
		})
	}
}

func TestIsQRIBAN(t *testing.T) {
	tests := []struct {
		name string
		iban string
		qr   bool
	}{
		{name: "qr iban", iban: "CH44 3199 9123 0008 8901 2", qr: true},
		{name: "qr iban lowercase", iban: "ch4431999123000889012", qr: true},
		{name: "liechtenstein qr iban", iban: "LI5430000000020176306", qr: true},
		{name: "qr iban with 30 prefix", iban: "CH8430000001800003797", qr: true},
		{name: "regular swiss iban", iban: "CH5800791123000889012", qr: false},
		{name: "foreign iban", iban: "DE89370400440532013000", qr: false},
		{name: "invalid checksum", iban: "CH4531999123000889012", qr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.qr, IsQRIBAN(tt.iban))
		})
	}
}

func TestFormatIBAN(t *testing.T) {
	assert.Equal(t, "CH44 3199 9123 0008 8901 2", FormatIBAN("CH4431999123000889012"))
	assert.Equal(t, "DE89 3704 0044 0532 0130 00", FormatIBAN("DE89370400440532013000"))
	assert.Equal(t, "", FormatIBAN(""))
}

func TestMod97(t *testing.T) {
	t.Run("valid iban yields one", func(t *testing.T) {
		remainder, err := Mod97("CH4431999123000889012")
		require.NoError(t, err)
		assert.Equal(t, 1, remainder)
	})

	t.Run("case insensitive", func(t *testing.T) {
		upper, err := Mod97("RF45ABC")
		require.NoError(t, err)
		lower, err := Mod97("RF45abc")
		require.NoError(t, err)
		assert.Equal(t, upper, lower)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := Mod97("RF00")
		assert.ErrorIs(t, err, ErrInsufficientCharacters)
	})

	t.Run("invalid character", func(t *testing.T) {
		_, err := Mod97("RF00-12")
		assert.ErrorIs(t, err, ErrInvalidCharacter)
	})
}

func TestCreateISO11649Reference(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "alphanumeric", raw: "B334BOPQE39D902DC", expected: "RF91B334BOPQE39D902DC"},
		{name: "numeric", raw: "539007547034", expected: "RF18539007547034"},
		{name: "whitespace removed", raw: "5390 0754 7034", expected: "RF18539007547034"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := CreateISO11649Reference(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
			assert.True(t, IsValidISO11649Reference(ref))
		})
	}

	t.Run("invalid character", func(t *testing.T) {
		_, err := CreateISO11649Reference("ABC-123")
		assert.ErrorIs(t, err, ErrInvalidCharacter)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := CreateISO11649Reference("1234567890123456789012")
		assert.ErrorIs(t, err, ErrReferenceTooLong)
	})
}

func TestIsValidISO11649Reference(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		valid bool
	}{
		{name: "compact", ref: "RF18539007547034", valid: true},
		{name: "grouped", ref: "RF18 5390 0754 7034", valid: true},
		{name: "wrong check digits", ref: "RF19539007547034", valid: false},
		{name: "lowercase prefix", ref: "rf18539007547034", valid: false},
		{name: "letters in check digits", ref: "RFAB539007547034", valid: false},
		{name: "too short", ref: "RF18", valid: false},
		{name: "too long", ref: "RF181234567890123456789012", valid: false},
		{name: "invalid character", ref: "RF18-5390", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidISO11649Reference(tt.ref))
		})
	}
}

func TestCreateQRReference(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "full length", raw: "20187383000000000000721928", expected: "201873830000000000007219287"},
		{name: "padded", raw: "1234", expected: "000000000000000000000012347"},
		{name: "grouped input", raw: "21 00000 00003 13947 14300 0901", expected: "210000000003139471430009017"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := CreateQRReference(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
			assert.True(t, IsValidQRReference(ref))
		})
	}

	t.Run("non numeric", func(t *testing.T) {
		_, err := CreateQRReference("1234A")
		assert.ErrorIs(t, err, ErrInvalidCharacter)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := CreateQRReference("123456789012345678901234567")
		assert.ErrorIs(t, err, ErrReferenceTooLong)
	})
}

func TestIsValidQRReference(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		valid bool
	}{
		{name: "valid", ref: "210000000003139471430009017", valid: true},
		{name: "grouped", ref: "21 00000 00003 13947 14300 09017", valid: true},
		{name: "wrong check digit", ref: "210000000003139471430009018", valid: false},
		{name: "too short", ref: "21000000000313947143000901", valid: false},
		{name: "non numeric", ref: "RF18539007547034", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidQRReference(tt.ref))
		})
	}
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "21 00000 00003 13947 14300 09017", FormatQRReference("210000000003139471430009017"))
	assert.Equal(t, "21 00000 00003 13947 14300 09017", FormatReference("QRR", "210000000003139471430009017"))
	assert.Equal(t, "RF18 5390 0754 7034", FormatReference("SCOR", "RF18539007547034"))
	assert.Equal(t, "", FormatReference("NON", "  "))
	assert.Equal(t, "12 34567", FormatQRReference("1234567"))
}

func TestCharacterClasses(t *testing.T) {
	assert.True(t, IsNumeric(""))
	assert.True(t, IsNumeric("0123"))
	assert.False(t, IsNumeric("01 23"))
	assert.True(t, IsAlpha("CHli"))
	assert.False(t, IsAlpha("C1"))
	assert.True(t, IsAlphaNumeric("RF18abc"))
	assert.False(t, IsAlphaNumeric("RF18-abc"))
}

func FuzzCreateQRReference(f *testing.F) {
	f.Add("1234")
	f.Add("20187383000000000000721928")
	f.Fuzz(func(t *testing.T, raw string) {
		ref, err := CreateQRReference(raw)
		if err != nil {
			return
		}
		if !IsValidQRReference(ref) {
			t.Fatalf("created reference %q is not valid", ref)
		}
	})
}
