package rules

import "strings"

// ReferenceDelimiter separates buyer and series ids inside a payment external reference.
// Ids are not escaped, so an id containing the delimiter does not round-trip.
const ReferenceDelimiter = "|"

func EncodeExternalReference(buyerID, seriesID string) string {
	return buyerID + ReferenceDelimiter + seriesID
}

// DecodeExternalReference splits on the first delimiter.
func DecodeExternalReference(ref string) (buyerID, seriesID string, ok bool) {
	buyerID, seriesID, ok = strings.Cut(ref, ReferenceDelimiter)
	if !ok {
		return "", "", false
	}
	return buyerID, seriesID, true
}
