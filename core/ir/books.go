package ir

import "strings"

// BookCount is the number of books in the canonical 66-book order.
const BookCount = 66

// bookCodes lists USFM book codes in canonical order; index+1 is the book number.
var bookCodes = [BookCount]string{
	"GEN", "EXO", "LEV", "NUM", "DEU", "JOS", "JDG", "RUT",
	"1SA", "2SA", "1KI", "2KI", "1CH", "2CH", "EZR", "NEH",
	"EST", "JOB", "PSA", "PRO", "ECC", "SNG", "ISA", "JER",
	"LAM", "EZK", "DAN", "HOS", "JOL", "AMO", "OBA", "JON",
	"MIC", "NAM", "HAB", "ZEP", "HAG", "ZEC", "MAL",
	"MAT", "MRK", "LUK", "JHN", "ACT", "ROM", "1CO", "2CO",
	"GAL", "EPH", "PHP", "COL", "1TH", "2TH", "1TI", "2TI",
	"TIT", "PHM", "HEB", "JAS", "1PE", "2PE", "1JN", "2JN",
	"3JN", "JUD", "REV",
}

var bookNames = map[string]string{
	"GEN": "Genesis", "EXO": "Exodus", "LEV": "Leviticus", "NUM": "Numbers",
	"DEU": "Deuteronomy", "JOS": "Joshua", "JDG": "Judges", "RUT": "Ruth",
	"1SA": "1 Samuel", "2SA": "2 Samuel", "1KI": "1 Kings", "2KI": "2 Kings",
	"1CH": "1 Chronicles", "2CH": "2 Chronicles", "EZR": "Ezra", "NEH": "Nehemiah",
	"EST": "Esther", "JOB": "Job", "PSA": "Psalms", "PRO": "Proverbs",
	"ECC": "Ecclesiastes", "SNG": "Song of Solomon", "ISA": "Isaiah", "JER": "Jeremiah",
	"LAM": "Lamentations", "EZK": "Ezekiel", "DAN": "Daniel", "HOS": "Hosea",
	"JOL": "Joel", "AMO": "Amos", "OBA": "Obadiah", "JON": "Jonah",
	"MIC": "Micah", "NAM": "Nahum", "HAB": "Habakkuk", "ZEP": "Zephaniah",
	"HAG": "Haggai", "ZEC": "Zechariah", "MAL": "Malachi",
	"MAT": "Matthew", "MRK": "Mark", "LUK": "Luke", "JHN": "John",
	"ACT": "Acts", "ROM": "Romans", "1CO": "1 Corinthians", "2CO": "2 Corinthians",
	"GAL": "Galatians", "EPH": "Ephesians", "PHP": "Philippians", "COL": "Colossians",
	"1TH": "1 Thessalonians", "2TH": "2 Thessalonians", "1TI": "1 Timothy", "2TI": "2 Timothy",
	"TIT": "Titus", "PHM": "Philemon", "HEB": "Hebrews", "JAS": "James",
	"1PE": "1 Peter", "2PE": "2 Peter", "1JN": "1 John", "2JN": "2 John",
	"3JN": "3 John", "JUD": "Jude", "REV": "Revelation",
}

var bookNumbers = func() map[string]int {
	m := make(map[string]int, BookCount)
	for i, code := range bookCodes {
		m[code] = i + 1
	}
	return m
}()

// BookNumber returns the canonical number (1-66) for a USFM book code.
// Matching is case-insensitive.
func BookNumber(code string) (int, bool) {
	n, ok := bookNumbers[strings.ToUpper(strings.TrimSpace(code))]
	return n, ok
}

// MustBookNumber is like BookNumber but panics on an unknown code.
// Intended for tests and static tables.
func MustBookNumber(code string) int {
	n, ok := BookNumber(code)
	if !ok {
		panic("ir: unknown book code " + code)
	}
	return n
}

// BookCode returns the USFM code for a canonical book number, or "" if out of range.
func BookCode(book int) string {
	if book < 1 || book > BookCount {
		return ""
	}
	return bookCodes[book-1]
}

// BookName returns the English name for a canonical book number.
func BookName(book int) string {
	return bookNames[BookCode(book)]
}
