package images

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/contre95/soundbridge/src/music"
)

// MockCatalogue is a mock implementation of the Catalogue interface.
type MockCatalogue struct {
	TracksBatchFunc func(ctx context.Context, trackIDs []int64) ([]*music.Track, error)
	SetTracksFunc   func(ctx context.Context, setID string) ([]*music.Track, error)
}

func (m *MockCatalogue) TracksBatch(ctx context.Context, trackIDs []int64) ([]*music.Track, error) {
	return m.TracksBatchFunc(ctx, trackIDs)
}
func (m *MockCatalogue) SetTracks(ctx context.Context, setID string) ([]*music.Track, error) {
	return m.SetTracksFunc(ctx, setID)
}

func TestSizedURL(t *testing.T) {
	got := SizedURL("https://i1.sndcdn.com/artworks-000123-large.jpg", "t500x500")
	want := "https://i1.sndcdn.com/artworks-000123-t500x500.jpg"
	if got != want {
		t.Errorf("SizedURL = %q, want %q", got, want)
	}
}

func TestSizedImageUnknownSizeFallsBack(t *testing.T) {
	img := SizedImage("https://i1.sndcdn.com/artworks-000123-large.jpg", "gigantic")
	if img.Width != 500 || img.Height != 500 {
		t.Errorf("dimensions = %dx%d, want 500x500", img.Width, img.Height)
	}
}

func TestImagesForTrackURIs(t *testing.T) {
	var batchCalls int
	var batched []int64
	catalogue := &MockCatalogue{
		TracksBatchFunc: func(ctx context.Context, trackIDs []int64) ([]*music.Track, error) {
			batchCalls++
			batched = trackIDs
			return []*music.Track{
				{ID: 13158665, ArtworkURL: "https://i1.sndcdn.com/artworks-000123-large.jpg"},
				{ID: 42, ArtworkURL: "https://i1.sndcdn.com/artworks-000042-large.jpg"},
			}, nil
		},
	}
	service := NewService(catalogue, nil)

	uris := []string{"soundcloud:song/The Craft.13158665", "soundcloud:song/Answer.42"}
	images, err := service.ImagesFor(context.Background(), uris, "t300x300")
	if err != nil {
		t.Fatalf("ImagesFor: %v", err)
	}
	// ids come straight out of the uris, in one batch request
	if batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1", batchCalls)
	}
	if len(batched) != 2 || batched[0] != 13158665 || batched[1] != 42 {
		t.Errorf("batched ids = %v", batched)
	}
	imgs := images[uris[0]]
	if len(imgs) != 1 {
		t.Fatalf("got %d images", len(imgs))
	}
	if imgs[0].URI != "https://i1.sndcdn.com/artworks-000123-t300x300.jpg" {
		t.Errorf("uri = %q", imgs[0].URI)
	}
	if imgs[0].Width != 300 {
		t.Errorf("width = %d, want 300", imgs[0].Width)
	}
}

func TestImagesForFallsBackToAvatar(t *testing.T) {
	catalogue := &MockCatalogue{
		TracksBatchFunc: func(ctx context.Context, trackIDs []int64) ([]*music.Track, error) {
			return []*music.Track{{ID: 7, AvatarURL: "https://i1.sndcdn.com/avatars-000007-large.jpg"}}, nil
		},
	}
	service := NewService(catalogue, nil)

	uri := "soundcloud:song/Seven.7"
	images, err := service.ImagesFor(context.Background(), []string{uri}, DefaultSize)
	if err != nil {
		t.Fatalf("ImagesFor: %v", err)
	}
	if len(images[uri]) != 1 {
		t.Fatalf("images = %+v", images)
	}
	if images[uri][0].URI != "https://i1.sndcdn.com/avatars-000007-t500x500.jpg" {
		t.Errorf("uri = %q", images[uri][0].URI)
	}
}

func TestImagesForSetURI(t *testing.T) {
	catalogue := &MockCatalogue{
		SetTracksFunc: func(ctx context.Context, setID string) ([]*music.Track, error) {
			if setID != "1050" {
				t.Errorf("setID = %q", setID)
			}
			return []*music.Track{
				{ID: 1, ArtworkURL: "https://i1.sndcdn.com/artworks-1-large.jpg"},
				{ID: 2, ArtworkURL: "https://i1.sndcdn.com/artworks-2-large.jpg"},
			}, nil
		},
	}
	service := NewService(catalogue, nil)

	uri := "soundcloud:directory:sets/1050"
	images, err := service.ImagesFor(context.Background(), []string{uri}, DefaultSize)
	if err != nil {
		t.Fatalf("ImagesFor: %v", err)
	}
	if len(images[uri]) != 2 {
		t.Fatalf("got %d images, want 2", len(images[uri]))
	}
}

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := Resize(buf.Bytes(), 32)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 32 || bounds.Dy() != 32 {
		t.Errorf("resized to %dx%d, want 32x32", bounds.Dx(), bounds.Dy())
	}
}
