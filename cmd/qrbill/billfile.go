package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"qrbill/pkg/bill"
	"qrbill/pkg/charset"
)

// billFile is the YAML form of a bill. Address layout fields are pointers so
// that a field present in the file counts as written even when empty.
type billFile struct {
	Account             string       `yaml:"account"`
	Creditor            addressFile  `yaml:"creditor"`
	Amount              string       `yaml:"amount,omitempty"`
	Currency            string       `yaml:"currency"`
	Debtor              *addressFile `yaml:"debtor,omitempty"`
	ReferenceType       string       `yaml:"reference_type,omitempty"`
	Reference           string       `yaml:"reference,omitempty"`
	UnstructuredMessage string       `yaml:"unstructured_message,omitempty"`
	BillInformation     string       `yaml:"bill_information,omitempty"`
	AlternativeSchemes  []schemeFile `yaml:"alternative_schemes,omitempty"`
	CharacterSet        string       `yaml:"character_set,omitempty"`
	Separator           string       `yaml:"separator,omitempty"`
}

type addressFile struct {
	Name         string  `yaml:"name,omitempty"`
	AddressLine1 *string `yaml:"address_line1,omitempty"`
	AddressLine2 *string `yaml:"address_line2,omitempty"`
	Street       *string `yaml:"street,omitempty"`
	HouseNo      *string `yaml:"house_no,omitempty"`
	PostalCode   *string `yaml:"postal_code,omitempty"`
	Town         *string `yaml:"town,omitempty"`
	CountryCode  string  `yaml:"country_code,omitempty"`
}

type schemeFile struct {
	Name        string `yaml:"name,omitempty"`
	Instruction string `yaml:"instruction"`
}

// parseBillFile reads a bill from YAML, or from JSON when the file name ends
// in .json.
func parseBillFile(name string, data []byte) (*bill.Bill, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		var b bill.Bill
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return &b, nil
	}

	var f billFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	b, err := f.toBill()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return b, nil
}

func (f *billFile) toBill() (*bill.Bill, error) {
	b := &bill.Bill{
		Account:             f.Account,
		Creditor:            *f.Creditor.toAddress(),
		Currency:            f.Currency,
		ReferenceType:       bill.ReferenceType(f.ReferenceType),
		Reference:           f.Reference,
		UnstructuredMessage: f.UnstructuredMessage,
		BillInformation:     f.BillInformation,
	}
	if f.Debtor != nil {
		b.Debtor = f.Debtor.toAddress()
	}
	if f.Amount != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", f.Amount, err)
		}
		b.Amount = &amount
	}
	for _, s := range f.AlternativeSchemes {
		b.AlternativeSchemes = append(b.AlternativeSchemes, bill.AlternativeScheme{Name: s.Name, Instruction: s.Instruction})
	}
	if f.CharacterSet != "" {
		cs, err := charset.ParseCharacterSet(f.CharacterSet)
		if err != nil {
			return nil, err
		}
		b.CharacterSet = cs
	}
	if err := b.Separator.UnmarshalText([]byte(f.Separator)); err != nil {
		return nil, err
	}
	return b, nil
}

func (a *addressFile) toAddress() *bill.Address {
	addr := &bill.Address{Name: a.Name, CountryCode: a.CountryCode}
	set := func(v *string, fn func(string)) {
		if v != nil {
			fn(*v)
		}
	}
	set(a.AddressLine1, addr.SetAddressLine1)
	set(a.AddressLine2, addr.SetAddressLine2)
	set(a.Street, addr.SetStreet)
	set(a.HouseNo, addr.SetHouseNo)
	set(a.PostalCode, addr.SetPostalCode)
	set(a.Town, addr.SetTown)
	return addr
}

func fromBill(b *bill.Bill) billFile {
	f := billFile{
		Account:             b.Account,
		Creditor:            fromAddress(&b.Creditor),
		Currency:            b.Currency,
		ReferenceType:       string(b.ReferenceType),
		Reference:           b.Reference,
		UnstructuredMessage: b.UnstructuredMessage,
		BillInformation:     b.BillInformation,
		CharacterSet:        b.CharacterSet.String(),
		Separator:           b.Separator.String(),
	}
	if b.Amount != nil {
		f.Amount = b.Amount.StringFixed(2)
	}
	if b.Debtor != nil {
		d := fromAddress(b.Debtor)
		f.Debtor = &d
	}
	for _, s := range b.AlternativeSchemes {
		f.AlternativeSchemes = append(f.AlternativeSchemes, schemeFile{Name: s.Name, Instruction: s.Instruction})
	}
	return f
}

func fromAddress(a *bill.Address) addressFile {
	f := addressFile{Name: a.Name, CountryCode: a.CountryCode}
	ptr := func(s string) *string { return &s }
	switch a.Type() {
	case bill.AddressStructured:
		f.Street, f.HouseNo = ptr(a.Street()), ptr(a.HouseNo())
		f.PostalCode, f.Town = ptr(a.PostalCode()), ptr(a.Town())
	case bill.AddressCombined:
		f.AddressLine1, f.AddressLine2 = ptr(a.AddressLine1()), ptr(a.AddressLine2())
	case bill.AddressConflicting:
		f.AddressLine1, f.AddressLine2 = ptr(a.AddressLine1()), ptr(a.AddressLine2())
		f.Street, f.HouseNo = ptr(a.Street()), ptr(a.HouseNo())
		f.PostalCode, f.Town = ptr(a.PostalCode()), ptr(a.Town())
	}
	return f
}
