package charset

import "slices"

// quickReplacementsFrom lists precomputed replacement sources in ascending
// code point order. quickReplacementsTo holds the replacement at the same
// index.
var (
	quickReplacementsFrom = []rune("¨¯¸ÃÅÕÝãåõÿĀāĂăĄąĆćĈĉĊċČčĎďĒēĔĕĖėĘęĚěĜĝĞğĠġĢģĤĥĨĩĪīĬĭĮįİĴĵĶķĹĺĻļĽľŃńŅņŇňŌōŎŏŐőŔŕŖŗŘřŚśŜŝŞşŠšŢţŤťŨũŪūŬŭŮůŰűŲųŴŵŶŷŸŹźŻżŽžƠơƯưǍǎǏǐǑǒǓǔǕǖǗǘǙǚǛǜǞǟǠǡǦǧǨǩǪǫǬǭǰǴǵǸǹǺǻȀȁȂȃȄȅȆȇȈȉȊȋȌȍȎȏȐȑȒȓȔȕȖȗȘșȚțȞȟȦȧȨȩȪȫȬȭȮȯȰȱȲȳ˘˙˚˛˜˝ͺ΄΅ḀḁḂḃḄḅḆḇḈḉḊḋḌḍḎḏḐḑḒḓḔḕḖḗḘḙḚḛḜḝḞḟḠḡḢḣḤḥḦḧḨḩḪḫḬḭḮḯḰḱḲḳḴḵḶḷḸḹḺḻḼḽḾḿṀṁṂṃṄṅṆṇṈṉṊṋṌṍṎṏṐṑṒṓṔṕṖṗṘṙṚṛṜṝṞṟṠṡṢṣṤṥṦṧṨṩṪṫṬṭṮṯṰṱṲṳṴṵṶṷṸṹṺṻṼṽṾṿẀẁẂẃẄẅẆẇẈẉẊẋẌẍẎẏẐẑẒẓẔẕẖẗẘẙẛẠạẢảẤấẦầẨẩẪẫẬậẮắẰằẲẳẴẵẶặẸẹẺẻẼẽẾếỀềỂểỄễỆệỈỉỊịỌọỎỏỐốỒồỔổỖỗỘộỚớỜờỞởỠỡỢợỤụỦủỨứỪừỬửỮữỰựỲỳỴỵỶỷỸỹ᾽᾿῀῁῍῎῏῝῞῟῭΅´῾‗‾Å≠≮≯﹉﹊﹋﹌￣")
	quickReplacementsTo   = []rune("   AAOYaaoyAaAaAaCcCcCcCcDdEeEeEeEeEeGgGgGgGgHhIiIiIiIiIJjKkLlLlLlNnNnNnOoOoOoRrRrRrSsSsSsSsTtTtUuUuUuUuUuUuWwYyYZzZzZzOoUuAaIiOoUuUuUuUuUuAaAaGgKkOoOojGgNnAaAaAaEeEeIiIiOoOoRrRrUuUuSsTtHhAaEeOoOoOoOoYy         AaBbBbBbCcDdDdDdDdDdEeEeEeEeEeFfGgHhHhHhHhHhIiIiKkKkKkLlLlLlLlMmMmMmNnNnNnNnOoOoOoOoPpPpRrRrRrRrSsSsSsSsSsTtTtTtTtUuUuUuUuUuVvVvWwWwWwWwWwXxXxYyZzZzZzhtwysAaAaAaAaAaAaAaAaAaAaAaAaEeEeEeEeEeEeEeEeIiIiOoOoOoOoOoOoOoOoOoOoOoOoUuUuUuUuUuUuUuYyYyYyYy                A=<>     ")
)

// extraReplacements covers characters that neither canonical nor
// compatibility decomposition maps into a repertoire.
var extraReplacements = map[rune]string{
	'Œ': "OE",
	'œ': "oe",
	'Æ': "AE",
	'æ': "ae",
	'Ǣ': "AE",
	'ǣ': "ae",
	'Ǽ': "AE",
	'ǽ': "ae",
	'Ǿ': "O",
	'ǿ': "o",
	'ȸ': "db",
	'ȹ': "qp",
	'Ø': "O",
	'ø': "o",
	'€': "E",
	'^': ".",
	'¡': "! ",
	'¢': "c",
	'¤': " ",
	'¥': "Y",
	'¦': "/",
	'§': "S",
	'©': "(c)",
	'«': "<<",
	'¬': "-",
	'\u00AD': "",
	'®': "(r)",
	'°': "o",
	'±': "+-",
	'µ': "u",
	'¶': "P",
	'·': "-",
	'»': ">>",
	'¿': "? ",
	'Ð': "D",
	'×': "x",
	'Þ': "TH",
	'ð': "d",
	'þ': "th",
	'Đ': "D",
	'đ': "d",
	'Ħ': "H",
	'ħ': "h",
	'ı': "i",
	'ĸ': "k",
	'Ŀ': "L",
	'ŀ': "l",
	'Ł': "L",
	'ł': "l",
	'ŉ': "n",
	'Ŋ': "N",
	'ŋ': "n",
	'Ŧ': "T",
	'ŧ': "t",
	'⁄': "/",
}

func quickReplacement(r rune) (rune, bool) {
	pos, found := slices.BinarySearch(quickReplacementsFrom, r)
	if !found {
		return 0, false
	}
	return quickReplacementsTo[pos], true
}
