// Package ir provides the canonical scripture reference model used by verse
// segmentation.
//
// A Ref is a book/chapter/verse triple ordered by its BBCCCVVV encoding
// (book*1000000 + chapter*1000 + verse). Bridged verses such as "3-4" are
// represented as a RefRange whose Start and End share a book and chapter.
//
// # Number runs
//
// Chapter and verse numbers are found in the text of styled runs. They are
// parsed with small participle grammars:
//
//	ParseVerseNumber("3")    // 3, 3
//	ParseVerseNumber("3-4")  // 3, 4
//	ParseVerseNumber("3b-4") // 3, 4
//	ParseChapterNumber("12") // 12
//
// Text that does not parse returns an error wrapping ErrInvalidVerseNumber or
// ErrInvalidChapterNumber from core/errors.
//
// # Example
//
//	ref := ir.NewRef(ir.MustBookNumber("GEN"), 1, 1)
//	next := ref.WithVerse(2)
//	fmt.Println(ref.Less(next)) // true
//	fmt.Println(next)           // GEN 1:2
package ir
