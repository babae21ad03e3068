// Package canon holds the canonical Spanish book table and the chapter
// navigator built on it.
//
// The table is the single source for book names, abbreviations, chapter
// counts and testament membership. Navigation treats chapter 0 of every
// book as an introduction pseudo-chapter that precedes chapter 1:
//
//	(Génesis, 50) -> Forward  -> (Éxodo, 0)
//	(Éxodo, 0)    -> Backward -> (Génesis, 50)
//	(Éxodo, 1)    -> Backward -> (Éxodo, 0)
//
// Travel stops at the two ends of the canon: stepping backward from
// (Génesis, 0) or forward from (Apocalipsis, 22) returns the same position.
//
// Everything in this package is immutable after init and safe to call from
// any goroutine.
package canon
