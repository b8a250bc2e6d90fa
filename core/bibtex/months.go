package bibtex

// monthTable holds the month abbreviations every BibTeX processor
// predefines. Process-wide immutable data.
var monthTable = map[string]string{
	"jan": "January",
	"feb": "February",
	"mar": "March",
	"apr": "April",
	"may": "May",
	"jun": "June",
	"jul": "July",
	"aug": "August",
	"sep": "September",
	"oct": "October",
	"nov": "November",
	"dec": "December",
}

// MonthName looks up one of the twelve built-in month constants. User
// variables shadow the table during expansion.
func MonthName(name string) (string, bool) {
	v, ok := monthTable[name]
	return v, ok
}
