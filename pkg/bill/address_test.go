package bill

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyWrite(t *testing.T) {
	tests := []struct {
		name     string
		current  AddressType
		group    FieldGroup
		expected AddressType
	}{
		{name: "structured from undetermined", current: AddressUndetermined, group: StructuredField, expected: AddressStructured},
		{name: "combined from undetermined", current: AddressUndetermined, group: CombinedField, expected: AddressCombined},
		{name: "neutral keeps undetermined", current: AddressUndetermined, group: NeutralField, expected: AddressUndetermined},
		{name: "structured stays structured", current: AddressStructured, group: StructuredField, expected: AddressStructured},
		{name: "combined after structured conflicts", current: AddressStructured, group: CombinedField, expected: AddressConflicting},
		{name: "structured after combined conflicts", current: AddressCombined, group: StructuredField, expected: AddressConflicting},
		{name: "neutral keeps combined", current: AddressCombined, group: NeutralField, expected: AddressCombined},
		{name: "conflicting absorbs structured", current: AddressConflicting, group: StructuredField, expected: AddressConflicting},
		{name: "conflicting absorbs combined", current: AddressConflicting, group: CombinedField, expected: AddressConflicting},
		{name: "conflicting absorbs neutral", current: AddressConflicting, group: NeutralField, expected: AddressConflicting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplyWrite(tt.current, tt.group))
		})
	}
}

func TestAddressType(t *testing.T) {
	t.Run("name and country are neutral", func(t *testing.T) {
		a := Address{Name: "Pia Rutschmann", CountryCode: "CH"}
		assert.Equal(t, AddressUndetermined, a.Type())
	})

	t.Run("empty structured write still counts", func(t *testing.T) {
		var a Address
		a.SetStreet("")
		assert.Equal(t, AddressStructured, a.Type())
	})

	t.Run("mixed writes conflict", func(t *testing.T) {
		var a Address
		a.SetAddressLine1("Rue du Lac 1268")
		a.SetTown("Biel")
		assert.Equal(t, AddressConflicting, a.Type())
	})

	t.Run("clear resets the type", func(t *testing.T) {
		a := NewCombinedAddress("Robert Schneider AG", "Rue du Lac 1268", "2501 Biel", "CH")
		a.Clear()
		assert.Equal(t, AddressUndetermined, a.Type())
		assert.True(t, a.IsEmpty())
	})
}

func TestAddressJSON(t *testing.T) {
	t.Run("structured round trip", func(t *testing.T) {
		a := NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268", "2501", "Biel", "CH")

		data, err := json.Marshal(a)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"structured","name":"Robert Schneider AG","street":"Rue du Lac",
			"house_no":"1268","postal_code":"2501","town":"Biel","country_code":"CH"}`, string(data))

		var decoded Address
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, a.Equal(&decoded))
	})

	t.Run("type derived from members present", func(t *testing.T) {
		var a Address
		require.NoError(t, json.Unmarshal([]byte(`{"type":"structured","name":"X","address_line1":""}`), &a))
		assert.Equal(t, AddressCombined, a.Type())
	})

	t.Run("both groups conflict", func(t *testing.T) {
		var a Address
		require.NoError(t, json.Unmarshal([]byte(`{"address_line2":"2501 Biel","town":"Biel"}`), &a))
		assert.Equal(t, AddressConflicting, a.Type())
		assert.Equal(t, "2501 Biel", a.AddressLine2())
		assert.Equal(t, "Biel", a.Town())
	})
}
