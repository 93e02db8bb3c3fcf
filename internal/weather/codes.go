package weather

// UnknownDescription is used for weather codes outside the table.
const UnknownDescription = "অজানা"

var descriptions = map[int]string{
	0:  "পরিষ্কার আকাশ",
	1:  "প্রধানত পরিষ্কার",
	2:  "আংশিক মেঘলা",
	3:  "মেঘাচ্ছন্ন",
	45: "কুয়াশা",
	48: "জমাট কুয়াশা",
	51: "হালকা গুঁড়ি বৃষ্টি",
	53: "মাঝারি গুঁড়ি বৃষ্টি",
	55: "ঘন গুঁড়ি বৃষ্টি",
	61: "হালকা বৃষ্টি",
	63: "মাঝারি বৃষ্টি",
	65: "ভারী বৃষ্টি",
	71: "হালকা তুষারপাত",
	73: "মাঝারি তুষারপাত",
	75: "ভারী তুষারপাত",
	80: "হালকা বর্ষণ",
	81: "মাঝারি বর্ষণ",
	82: "তীব্র বর্ষণ",
	95: "বজ্রঝড়",
	96: "শিলাবৃষ্টিসহ বজ্রঝড়",
	99: "ভারী শিলাবৃষ্টিসহ বজ্রঝড়",
}

// Describe returns the Bengali description of a WMO weather code.
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return UnknownDescription
}
