package bill

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrbill/pkg/charset"
)

func TestSetReference(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		expected  ReferenceType
	}{
		{name: "empty", reference: "", expected: ReferenceTypeNone},
		{name: "blank", reference: "   ", expected: ReferenceTypeNone},
		{name: "creditor reference", reference: "RF18539007547034", expected: ReferenceTypeCreditor},
		{name: "creditor reference with leading space", reference: " RF18 5390 0754 7034", expected: ReferenceTypeCreditor},
		{name: "qr reference", reference: "210000000003139471430009017", expected: ReferenceTypeQR},
		{name: "anything else", reference: "abc", expected: ReferenceTypeQR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bill
			b.SetReference(tt.reference)
			assert.Equal(t, tt.reference, b.Reference)
			assert.Equal(t, tt.expected, b.ReferenceType)
		})
	}
}

func TestCreateAndSetReference(t *testing.T) {
	t.Run("qr reference", func(t *testing.T) {
		var b Bill
		require.NoError(t, b.CreateAndSetQRReference("20187383000000000000721928"))
		assert.Equal(t, "201873830000000000007219287", b.Reference)
		assert.Equal(t, ReferenceTypeQR, b.ReferenceType)
		assert.Equal(t, "20 18738 30000 00000 00072 19287", b.FormattedReference())
	})

	t.Run("creditor reference", func(t *testing.T) {
		var b Bill
		require.NoError(t, b.CreateAndSetCreditorReference("539007547034"))
		assert.Equal(t, "RF18539007547034", b.Reference)
		assert.Equal(t, ReferenceTypeCreditor, b.ReferenceType)
		assert.Equal(t, "RF18 5390 0754 7034", b.FormattedReference())
	})

	t.Run("invalid raw reference leaves bill untouched", func(t *testing.T) {
		var b Bill
		require.Error(t, b.CreateAndSetQRReference("12A"))
		assert.Empty(t, b.Reference)
		assert.Empty(t, b.ReferenceType)
	})
}

func TestClone(t *testing.T) {
	amount := decimal.RequireFromString("10.50")
	b := &Bill{
		Account:            "CH4431999123000889012",
		Amount:             &amount,
		Debtor:             NewStructuredAddress("Pia", "Marktgasse", "28", "9400", "Rorschach", "CH"),
		AlternativeSchemes: []AlternativeScheme{{Name: "Ultraviolet", Instruction: "UV;UltraPay005;12345"}},
	}

	c := b.Clone()
	require.True(t, b.Equal(c))

	c.Debtor.Name = "Other"
	c.AlternativeSchemes[0].Instruction = "changed"
	*c.Amount = decimal.NewFromInt(1)

	assert.Equal(t, "Pia", b.Debtor.Name)
	assert.Equal(t, "UV;UltraPay005;12345", b.AlternativeSchemes[0].Instruction)
	assert.True(t, b.Amount.Equal(decimal.RequireFromString("10.5")))
	assert.False(t, b.Equal(c))
}

func TestBillJSON(t *testing.T) {
	amount := decimal.RequireFromString("3949.75")
	b := &Bill{
		Account:      "CH5800791123000889012",
		Creditor:     *NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268", "2501", "Biel", "CH"),
		Amount:       &amount,
		Currency:     "CHF",
		CharacterSet: charset.ExtendedLatin,
		Separator:    SeparatorCRLF,
	}
	b.SetReference("RF18539007547034")

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded Bill
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, b.Equal(&decoded))
	assert.Equal(t, AddressStructured, decoded.Creditor.Type())
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, "\n", SeparatorLF.Newline())
	assert.Equal(t, "\r\n", SeparatorCRLF.Newline())

	var s Separator
	require.NoError(t, s.UnmarshalText([]byte("CRLF")))
	assert.Equal(t, SeparatorCRLF, s)
	assert.Error(t, s.UnmarshalText([]byte("cr")))
}
