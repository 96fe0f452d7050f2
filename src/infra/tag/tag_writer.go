package tag

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/contre95/soundbridge/src/features/downloading"
	"github.com/contre95/soundbridge/src/music"
	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// maxEmbeddedEdge caps the size of artwork embedded into downloads.
const maxEmbeddedEdge = 800

// TagWriter writes ID3v2 tags into downloaded MP3 files.
type TagWriter struct {
	httpc *http.Client
}

// NewTagWriter creates a new TagWriter.
func NewTagWriter() downloading.TagWriter {
	return &TagWriter{httpc: &http.Client{Timeout: 30 * time.Second}}
}

// WriteFileTags writes track metadata to the file. SoundCloud progressive
// downloads are MP3; anything else is left untagged.
func (t *TagWriter) WriteFileTags(ctx context.Context, filePath string, track *music.Track) error {
	if ext := strings.ToLower(filepath.Ext(filePath)); ext != ".mp3" {
		slog.Warn("Skipping tags for unsupported format", "path", filePath)
		return nil
	}

	id3, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("tag: open %s: %w", filePath, err)
	}
	defer id3.Close()

	id3.SetDefaultEncoding(id3v2.EncodingUTF8)
	id3.SetTitle(track.Title)
	id3.SetArtist(track.ArtistName())
	if track.Album != nil {
		id3.SetAlbum(track.Album.Name)
	}
	if track.Genre != "" {
		id3.SetGenre(track.Genre)
	}
	if len(track.Date) >= 4 {
		id3.SetYear(track.Date[:4])
	}
	if comment := track.Comment(); comment != "" {
		id3.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "SoundCloud",
			Text:        comment,
		})
	}

	if artwork := t.fetchArtwork(ctx, track); artwork != nil {
		id3.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     artwork,
		})
	}

	return id3.Save()
}

// fetchArtwork downloads and normalizes cover art. Failures only cost the
// embedded cover, never the download.
func (t *TagWriter) fetchArtwork(ctx context.Context, track *music.Track) []byte {
	artworkURL := track.ArtworkURL
	if artworkURL == "" {
		artworkURL = track.AvatarURL
	}
	if artworkURL == "" {
		return nil
	}
	artworkURL = strings.Replace(artworkURL, "large", "t500x500", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil
	}
	res, err := t.httpc.Do(req)
	if err != nil {
		slog.Warn("Artwork download failed", "url", artworkURL, "error", err)
		return nil
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		slog.Warn("Artwork download failed", "url", artworkURL, "status", res.StatusCode)
		return nil
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil
	}

	normalized, err := normalizeArtwork(data, maxEmbeddedEdge)
	if err != nil {
		slog.Warn("Artwork processing failed", "url", artworkURL, "error", err)
		return nil
	}
	return normalized
}

// normalizeArtwork re-encodes artwork as JPEG, scaled down to fit within
// maxSize pixels while keeping the aspect ratio.
func normalizeArtwork(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxSize > 0 && (width > maxSize || height > maxSize) {
		if width > height {
			height = (height * maxSize) / width
			width = maxSize
		} else {
			width = (width * maxSize) / height
			height = maxSize
		}
		img = resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
