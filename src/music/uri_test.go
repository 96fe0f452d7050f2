package music

import "testing"

func TestReadableTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Craft", "The Craft"},
		{"Nightcall   (Kavinsky)", "Nightcall (Kavinsky)"},
		{"Düsseldorf & Köln!", "Dusseldorf Koln"},
		{"  padded\ttitle ", "paddedtitle"},
		{"  double  spaced  ", "double spaced"},
	}
	for _, c := range cases {
		if got := ReadableTitle(c.in); got != c.want {
			t.Errorf("ReadableTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTrackURIRoundTrip(t *testing.T) {
	uri := TrackURI("The Craft", 13158665)
	if uri != "soundcloud:song/The Craft.13158665" {
		t.Errorf("unexpected uri %q", uri)
	}
	if got := ParseTrackID(uri); got != "13158665" {
		t.Errorf("ParseTrackID(%q) = %q, want 13158665", uri, got)
	}
}

func TestParseTrackIDWithDottedTitle(t *testing.T) {
	uri := TrackURI("Mr. Fingers feat. Lil Louis", 38720262)
	if got := ParseTrackID(uri); got != "38720262" {
		t.Errorf("ParseTrackID(%q) = %q, want 38720262", uri, got)
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate("2011/04/06 15:37:43 +0000"); !ok {
		t.Error("expected legacy api date format to parse")
	}
	if _, ok := ParseDate("2011-04-06T15:37:43Z"); !ok {
		t.Error("expected iso date format to parse")
	}
	if _, ok := ParseDate(""); ok {
		t.Error("expected empty date to fail")
	}
}

func TestTrackValidate(t *testing.T) {
	track := &Track{ID: 1, URI: TrackURI("Ok", 1), Title: "Ok"}
	if err := track.Validate(); err != nil {
		t.Errorf("expected valid track, got %v", err)
	}

	bad := &Track{ID: 0, URI: "soundcloud:song/x.0", Title: "x"}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-positive id")
	}
}
