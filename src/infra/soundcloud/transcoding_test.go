package soundcloud

import "testing"

func transcoding(urlStr, protocol, mime string, snipped bool) Transcoding {
	return Transcoding{
		URL:     urlStr,
		Snipped: snipped,
		Format:  Format{Protocol: protocol, MimeType: mime},
	}
}

func TestPickTranscodingPrefersOggProgressive(t *testing.T) {
	options := []Transcoding{
		transcoding("https://cdn/mp3-hls", "hls", "audio/mpeg", false),
		transcoding("https://cdn/ogg-prog", "progressive", `audio/ogg; codecs="opus"`, false),
		transcoding("https://cdn/mp3-prog", "progressive", "audio/mpeg", false),
	}
	picked := pickTranscoding(options, "", "progressive")
	if picked == nil || picked.URL != "https://cdn/ogg-prog" {
		t.Fatalf("expected ogg progressive transcoding, got %+v", picked)
	}
}

func TestPickTranscodingFallsBackToProtocolMatch(t *testing.T) {
	options := []Transcoding{
		transcoding("https://cdn/mp3-hls", "hls", "audio/mpeg", false),
		transcoding("https://cdn/mp3-prog", "progressive", "audio/mpeg", false),
	}
	picked := pickTranscoding(options, "", "hls")
	if picked == nil || picked.URL != "https://cdn/mp3-hls" {
		t.Fatalf("expected hls transcoding, got %+v", picked)
	}
}

func TestPickTranscodingSecondChoiceOnMimeOnly(t *testing.T) {
	options := []Transcoding{
		transcoding("https://cdn/mp3-prog", "progressive", "audio/mpeg", false),
		transcoding("https://cdn/ogg-hls", "hls", `audio/ogg; codecs="opus"`, false),
	}
	picked := pickTranscoding(options, "", "progressive")
	if picked == nil || picked.URL != "https://cdn/ogg-hls" {
		t.Fatalf("expected ogg hls as second choice, got %+v", picked)
	}
}

func TestPickTranscodingDropsPreviewsWhenFullStreamsExist(t *testing.T) {
	options := []Transcoding{
		transcoding("https://cdn/preview/ogg-prog", "progressive", `audio/ogg; codecs="opus"`, true),
		transcoding("https://cdn/mp3-prog", "progressive", "audio/mpeg", false),
	}
	picked := pickTranscoding(options, "", "progressive")
	if picked == nil || picked.URL != "https://cdn/mp3-prog" {
		t.Fatalf("expected full stream over preview, got %+v", picked)
	}
}

func TestPickTranscodingKeepsPreviewWhenNothingElse(t *testing.T) {
	options := []Transcoding{
		transcoding("https://cdn/preview/mp3-prog", "progressive", "audio/mpeg", true),
	}
	picked := pickTranscoding(options, "", "progressive")
	if picked == nil || picked.URL != "https://cdn/preview/mp3-prog" {
		t.Fatalf("expected preview transcoding, got %+v", picked)
	}
}

func TestPickTranscodingSkipsEncrypted(t *testing.T) {
	options := []Transcoding{
		transcoding("https://cdn/enc", "encrypted-hls", "audio/mpeg", false),
		transcoding("https://cdn/mp3-prog", "progressive", "audio/mpeg", false),
	}
	picked := pickTranscoding(options, "", "hls")
	if picked == nil || picked.URL != "https://cdn/mp3-prog" {
		t.Fatalf("expected encrypted transcoding skipped, got %+v", picked)
	}
}

func TestPickTranscodingEmpty(t *testing.T) {
	if picked := pickTranscoding(nil, "", "progressive"); picked != nil {
		t.Fatalf("expected nil for no transcodings, got %+v", picked)
	}
}
