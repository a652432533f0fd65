package bill

import (
	"encoding/json"
	"fmt"
)

// AddressType tells which of the two address layouts an address uses.
type AddressType int

const (
	// AddressUndetermined means no layout specific field has been written yet.
	AddressUndetermined AddressType = iota
	// AddressStructured uses street, house number, postal code and town.
	AddressStructured
	// AddressCombined uses the two free-form address lines.
	AddressCombined
	// AddressConflicting means fields of both layouts have been written.
	AddressConflicting
)

func (t AddressType) String() string {
	switch t {
	case AddressUndetermined:
		return "undetermined"
	case AddressStructured:
		return "structured"
	case AddressCombined:
		return "combined_elements"
	case AddressConflicting:
		return "conflicting"
	default:
		return fmt.Sprintf("AddressType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t AddressType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// FieldGroup classifies an address field by the layout it belongs to.
type FieldGroup int

const (
	// NeutralField fields (name, country code) belong to both layouts.
	NeutralField FieldGroup = iota
	// StructuredField fields are street, house number, postal code and town.
	StructuredField
	// CombinedField fields are the two address lines.
	CombinedField
)

// ApplyWrite returns the address type after a field of the given group has
// been written. Conflicting is absorbing.
func ApplyWrite(current AddressType, group FieldGroup) AddressType {
	switch group {
	case StructuredField:
		switch current {
		case AddressUndetermined, AddressStructured:
			return AddressStructured
		default:
			return AddressConflicting
		}
	case CombinedField:
		switch current {
		case AddressUndetermined, AddressCombined:
			return AddressCombined
		default:
			return AddressConflicting
		}
	default:
		return current
	}
}

// Address is the postal address of a creditor or debtor.
//
// The layout specific fields are only reachable through setters so that the
// address type always reflects which fields have been written, even when the
// written value is empty.
type Address struct {
	Name        string
	CountryCode string

	addressLine1 string
	addressLine2 string
	street       string
	houseNo      string
	postalCode   string
	town         string

	addressType AddressType
}

// Type returns the layout derived from the fields written so far.
func (a *Address) Type() AddressType { return a.addressType }

func (a *Address) AddressLine1() string { return a.addressLine1 }
func (a *Address) AddressLine2() string { return a.addressLine2 }
func (a *Address) Street() string       { return a.street }
func (a *Address) HouseNo() string      { return a.houseNo }
func (a *Address) PostalCode() string   { return a.postalCode }
func (a *Address) Town() string         { return a.town }

// SetAddressLine1 sets the first address line (street and house number or
// post office box) of a combined address.
func (a *Address) SetAddressLine1(v string) {
	a.addressLine1 = v
	a.addressType = ApplyWrite(a.addressType, CombinedField)
}

// SetAddressLine2 sets the second address line (postal code and town) of a
// combined address.
func (a *Address) SetAddressLine2(v string) {
	a.addressLine2 = v
	a.addressType = ApplyWrite(a.addressType, CombinedField)
}

func (a *Address) SetStreet(v string) {
	a.street = v
	a.addressType = ApplyWrite(a.addressType, StructuredField)
}

func (a *Address) SetHouseNo(v string) {
	a.houseNo = v
	a.addressType = ApplyWrite(a.addressType, StructuredField)
}

func (a *Address) SetPostalCode(v string) {
	a.postalCode = v
	a.addressType = ApplyWrite(a.addressType, StructuredField)
}

func (a *Address) SetTown(v string) {
	a.town = v
	a.addressType = ApplyWrite(a.addressType, StructuredField)
}

// Clear resets every field and the address type.
func (a *Address) Clear() {
	*a = Address{}
}

// IsEmpty reports whether no field carries a value.
func (a *Address) IsEmpty() bool {
	return a.Name == "" && a.CountryCode == "" &&
		a.addressLine1 == "" && a.addressLine2 == "" &&
		a.street == "" && a.houseNo == "" && a.postalCode == "" && a.town == ""
}

// Equal compares all fields including the address type.
func (a *Address) Equal(o *Address) bool {
	if a == nil || o == nil {
		return a == o
	}
	return *a == *o
}

// NewStructuredAddress builds a structured address.
func NewStructuredAddress(name, street, houseNo, postalCode, town, countryCode string) *Address {
	a := &Address{Name: name, CountryCode: countryCode}
	a.SetStreet(street)
	a.SetHouseNo(houseNo)
	a.SetPostalCode(postalCode)
	a.SetTown(town)
	return a
}

// NewCombinedAddress builds an address from two free-form lines.
func NewCombinedAddress(name, line1, line2, countryCode string) *Address {
	a := &Address{Name: name, CountryCode: countryCode}
	a.SetAddressLine1(line1)
	a.SetAddressLine2(line2)
	return a
}

// addressJSON is the wire form. A layout field present in the document
// counts as written, even when its value is empty.
type addressJSON struct {
	Type         string  `json:"type,omitempty"`
	Name         string  `json:"name,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	Street       *string `json:"street,omitempty"`
	HouseNo      *string `json:"house_no,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Town         *string `json:"town,omitempty"`
	CountryCode  string  `json:"country_code,omitempty"`
}

// MarshalJSON implements json.Marshaler. Only the fields of the derived
// layout are emitted; a conflicting address emits both groups.
func (a Address) MarshalJSON() ([]byte, error) {
	out := addressJSON{
		Type:        a.addressType.String(),
		Name:        a.Name,
		CountryCode: a.CountryCode,
	}
	if a.addressType == AddressCombined || a.addressType == AddressConflicting {
		out.AddressLine1 = &a.addressLine1
		out.AddressLine2 = &a.addressLine2
	}
	if a.addressType == AddressStructured || a.addressType == AddressConflicting {
		out.Street = &a.street
		out.HouseNo = &a.houseNo
		out.PostalCode = &a.postalCode
		out.Town = &a.town
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The "type" member is ignored;
// the layout is derived from the members present.
func (a *Address) UnmarshalJSON(data []byte) error {
	var in addressJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	a.Clear()
	a.Name = in.Name
	a.CountryCode = in.CountryCode
	setIfPresent(in.AddressLine1, a.SetAddressLine1)
	setIfPresent(in.AddressLine2, a.SetAddressLine2)
	setIfPresent(in.Street, a.SetStreet)
	setIfPresent(in.HouseNo, a.SetHouseNo)
	setIfPresent(in.PostalCode, a.SetPostalCode)
	setIfPresent(in.Town, a.SetTown)
	return nil
}

func setIfPresent(v *string, set func(string)) {
	if v != nil {
		set(*v)
	}
}
