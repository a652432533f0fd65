// Package testutil holds bill fixtures and HTTP helpers shared by tests.
package testutil

import (
	"strings"

	"github.com/shopspring/decimal"

	"qrbill/pkg/bill"
)

// Amount parses a decimal literal and returns a pointer to it. It panics on
// malformed input and is meant for fixtures only.
func Amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ExampleQRIBANBill is a complete bill paid to a QR-IBAN with a QR reference,
// bill information and two alternative schemes. Several values carry
// irregular whitespace that validation removes.
func ExampleQRIBANBill() *bill.Bill {
	b := &bill.Bill{
		Account:             "CH44 3199 9123 0008  89012",
		Creditor:            *bill.NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268/2/22", "2501", "Biel", "CH"),
		Amount:              Amount("123949.75"),
		Currency:            "CHF",
		Debtor:              bill.NewStructuredAddress("Pia-Maria Rutschmann-Schnyder", "Grosse Marktgasse", "28", "9400", " Rorschach", "CH"),
		UnstructuredMessage: "Instruction of 15.09.2019",
		BillInformation:     "//S1/10/10201409/11/190512/20/1400.000-53/30/106017086/31/180508/32/7.7/40/2:10;0:30",
		AlternativeSchemes: []bill.AlternativeScheme{
			{Name: "Ultraviolet", Instruction: "UV;UltraPay005;12345"},
			{Name: "Xing Yong", Instruction: "XY;XYService;54321"},
		},
	}
	b.SetReference("210000 000 00313 9471430009017")
	return b
}

// ExampleDonationBill is an open-amount bill without debtor and reference.
func ExampleDonationBill() *bill.Bill {
	creditor := bill.Address{Name: "Salvation Army Foundation Switzerland", CountryCode: "CH"}
	creditor.SetPostalCode("3000")
	creditor.SetTown("Berne")

	b := &bill.Bill{
		Account:             "CH3709000000304442225",
		Creditor:            creditor,
		Currency:            "CHF",
		UnstructuredMessage: "Donation to the Winterfest Campaign",
	}
	b.SetReference("")
	return b
}

// ExampleCreditorReferenceBill is a bill to a regular IBAN with an ISO 11649
// creditor reference.
func ExampleCreditorReferenceBill() *bill.Bill {
	b := &bill.Bill{
		Account:  "CH74 0070 0110 0061 1600 2",
		Creditor: *bill.NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268/2/22", "2501", "Biel", "CH"),
		Amount:   Amount("199.95"),
		Currency: "CHF",
		Debtor:   bill.NewStructuredAddress("Pia-Maria Rutschmann-Schnyder", "Grosse Marktgasse", "28", "9400", "Rorschach", "CH"),
	}
	b.SetReference("RF18539007547034")
	return b
}

// ExampleCombinedAddressBill uses combined address lines that exceed the
// maximum field lengths.
func ExampleCombinedAddressBill() *bill.Bill {
	b := &bill.Bill{
		Account: "CH44 3199 9123 0008  89012",
		Creditor: *bill.NewCombinedAddress(
			"Herrn und Frau Ambikaipagan & Deepshikha Thirugnanasampanthamoorthy",
			"c/o Pereira De Carvalho, Conrad-Ferdinand-Meyer-Strasse 317 Wohnung 7B",
			"9527 Niederhelfenschwil bei Schönholzerswilen im Kanton St. Gallen",
			"CH"),
		Amount:   Amount("987654321.5"),
		Currency: "CHF",
		Debtor: bill.NewCombinedAddress(
			"Annegret Karin & Hansruedi Frischknecht-Bernhardsgrütter",
			"1503 South New Hampshire Avenue, Lower East-side Bellvue",
			"Poughkeepsie NY 12601-1233",
			"US"),
		UnstructuredMessage: "Lorem ipsum dolor sit amet, consetetur sadipscing elitr, sed",
		BillInformation:     "//S1/10/10201409/11/190512/20/1400.0001-53/30/106017086/31/180508/32/7.7/40/0:30",
	}
	b.SetReference("210000 000 00313 9471430009017")
	return b
}

var sampleQRText1 = []string{
	"SPC",
	"0200",
	"1",
	"CH5800791123000889012",
	"S",
	"Robert Schneider AG",
	"Rue du Lac",
	"1268",
	"2501",
	"Biel",
	"CH",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"3949.75",
	"CHF",
	"S",
	"Pia Rutschmann",
	"Marktgasse",
	"28",
	"9400",
	"Rorschach",
	"CH",
	"NON",
	"",
	"Bill no. 3139 for gardening work and disposal of waste material",
	"EPD",
}

// SampleQRText1 returns a minimal QR text joined with newline.
func SampleQRText1(newline string) string {
	return strings.Join(sampleQRText1, newline)
}

// SampleBill1 is the bill encoded by SampleQRText1.
func SampleBill1(sep bill.Separator) *bill.Bill {
	b := &bill.Bill{
		Account:             "CH5800791123000889012",
		Creditor:            *bill.NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268", "2501", "Biel", "CH"),
		Amount:              Amount("3949.75"),
		Currency:            "CHF",
		Debtor:              bill.NewStructuredAddress("Pia Rutschmann", "Marktgasse", "28", "9400", "Rorschach", "CH"),
		UnstructuredMessage: "Bill no. 3139 for gardening work and disposal of waste material",
		Separator:           sep,
	}
	b.SetReference("")
	return b
}

var sampleQRText2 = []string{
	"SPC",
	"0200",
	"1",
	"CH4431999123000889012",
	"S",
	"Robert Schneider AG",
	"Rue du Lac",
	"1268",
	"2501",
	"Biel",
	"CH",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"1949.75",
	"CHF",
	"S",
	"Pia-Maria Rutschmann-Schnyder",
	"Grosse Marktgasse",
	"28",
	"9400",
	"Rorschach",
	"CH",
	"QRR",
	"210000000003139471430009017",
	"Order dated 18.06.2020",
	"EPD",
	"//S1/01/20170309/11/10201409/20/14000000/22/36958/30/CH106017086/40/1020/41/3010",
	"UV;UltraPay005;12345",
	"XY;XYService;54321",
}

// SampleQRText2 returns a QR text with bill information and two alternative
// schemes.
func SampleQRText2(newline string) string {
	return strings.Join(sampleQRText2, newline)
}

// SampleBill2 is the bill encoded by SampleQRText2. Alternative scheme names
// are not part of the QR text and are therefore left empty.
func SampleBill2(sep bill.Separator) *bill.Bill {
	b := &bill.Bill{
		Account:             "CH4431999123000889012",
		Creditor:            *bill.NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268", "2501", "Biel", "CH"),
		Amount:              Amount("1949.75"),
		Currency:            "CHF",
		Debtor:              bill.NewStructuredAddress("Pia-Maria Rutschmann-Schnyder", "Grosse Marktgasse", "28", "9400", "Rorschach", "CH"),
		UnstructuredMessage: "Order dated 18.06.2020",
		BillInformation:     "//S1/01/20170309/11/10201409/20/14000000/22/36958/30/CH106017086/40/1020/41/3010",
		AlternativeSchemes: []bill.AlternativeScheme{
			{Instruction: "UV;UltraPay005;12345"},
			{Instruction: "XY;XYService;54321"},
		},
		Separator: sep,
	}
	b.SetReference("210000000003139471430009017")
	return b
}

var sampleQRText3 = []string{
	"SPC",
	"0200",
	"1",
	"CH5800791123000889012",
	"S",
	"Robert Schneider AG",
	"Rue du Lac",
	"1268",
	"2501",
	"Biel",
	"CH",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"199.95",
	"CHF",
	"K",
	"Pia-Maria Rutschmann-Schnyder",
	"Grosse Marktgasse 28",
	"9400 Rorschach",
	"",
	"",
	"CH",
	"SCOR",
	"RF18539007547034",
	"",
	"EPD",
}

// SampleQRText3 returns a QR text with a combined debtor address and a
// creditor reference.
func SampleQRText3(newline string) string {
	return strings.Join(sampleQRText3, newline)
}

// SampleBill3 is the bill encoded by SampleQRText3.
func SampleBill3(sep bill.Separator) *bill.Bill {
	b := &bill.Bill{
		Account:   "CH5800791123000889012",
		Creditor:  *bill.NewStructuredAddress("Robert Schneider AG", "Rue du Lac", "1268", "2501", "Biel", "CH"),
		Amount:    Amount("199.95"),
		Currency:  "CHF",
		Debtor:    bill.NewCombinedAddress("Pia-Maria Rutschmann-Schnyder", "Grosse Marktgasse 28", "9400 Rorschach", "CH"),
		Separator: sep,
	}
	b.SetReference("RF18539007547034")
	return b
}
