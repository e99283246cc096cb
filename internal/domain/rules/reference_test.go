package rules

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEncodeExternalReference(t *testing.T) {
	got := EncodeExternalReference("u-123", "s-456")
	if got != "u-123|s-456" {
		t.Fatalf("unexpected reference: got %q want %q", got, "u-123|s-456")
	}
}

func TestDecodeExternalReference(t *testing.T) {
	buyerID, seriesID, ok := DecodeExternalReference("u-123|s-456")
	if !ok {
		t.Fatalf("expected reference to decode")
	}
	if buyerID != "u-123" || seriesID != "s-456" {
		t.Fatalf("unexpected pair: (%q, %q)", buyerID, seriesID)
	}
}

func TestDecodeExternalReferenceWithoutDelimiter(t *testing.T) {
	for _, ref := range []string{"", "u-123", "u-123s-456"} {
		if _, _, ok := DecodeExternalReference(ref); ok {
			t.Fatalf("reference %q must not decode", ref)
		}
	}
}

func TestDecodeExternalReferenceSplitsOnFirstDelimiter(t *testing.T) {
	// A series id carrying the delimiter is kept whole; a buyer id carrying it is not.
	buyerID, seriesID, ok := DecodeExternalReference("u-1|s|2")
	if !ok {
		t.Fatalf("expected reference to decode")
	}
	if buyerID != "u-1" || seriesID != "s|2" {
		t.Fatalf("unexpected pair: (%q, %q)", buyerID, seriesID)
	}

	buyerID, seriesID, _ = DecodeExternalReference(EncodeExternalReference("u|1", "s-2"))
	if buyerID == "u|1" && seriesID == "s-2" {
		t.Fatalf("buyer id with delimiter is not expected to round-trip")
	}
}

func TestExternalReferenceRoundTrip(t *testing.T) {
	id := rapid.StringMatching(`[^|]*`)

	rapid.Check(t, func(t *rapid.T) {
		buyerID := id.Draw(t, "buyer_id")
		seriesID := id.Draw(t, "series_id")

		gotBuyer, gotSeries, ok := DecodeExternalReference(EncodeExternalReference(buyerID, seriesID))
		if !ok {
			t.Fatalf("encoded reference did not decode")
		}
		if gotBuyer != buyerID || gotSeries != seriesID {
			t.Fatalf("round trip mismatch: (%q, %q) -> (%q, %q)", buyerID, seriesID, gotBuyer, gotSeries)
		}
	})
}
