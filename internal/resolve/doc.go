// Package resolve turns extracted entity mentions into catalog matches.
//
// Songs and albums resolve first. A pair that finds nothing is retried with
// its title and artist exchanged; a hit on the retry both rescues the lookup
// and corrects the artist work list, since it proves the extractor put the
// values in the wrong slots. Artists resolve last, against the corrected
// list. Catalog failures degrade the affected entry and never abort the
// whole unit.
package resolve
