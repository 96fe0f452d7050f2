package downloading

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/contre95/soundbridge/src/features/jobs"
)

var (
	unsafeChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Sanitize creates a filesystem-safe filename.
func Sanitize(filename string) string {
	sanitized := unsafeChars.ReplaceAllString(filename, " ")
	sanitized = strings.Trim(sanitized, " .")
	return multiSpaceRe.ReplaceAllString(sanitized, " ")
}

// DownloadJobTask handles download job execution.
type DownloadJobTask struct {
	service *Service
}

// NewDownloadJobTask creates a new download job Task.
func NewDownloadJobTask(service *Service) *DownloadJobTask {
	return &DownloadJobTask{service: service}
}

// MetadataKeys returns the required metadata keys for download jobs.
func (e *DownloadJobTask) MetadataKeys() []string {
	return []string{"trackID"}
}

// Execute performs the download operation.
func (e *DownloadJobTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	trackID, ok := job.Metadata["trackID"].(string)
	if !ok {
		return nil, fmt.Errorf("trackID not found in job metadata")
	}

	downloadPath := e.service.configManager.Get().Downloads.Path
	if err := os.MkdirAll(downloadPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	progressUpdater(5, "Fetching track metadata...")
	track, err := e.service.fetcher.ParsedTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track %s: %w", trackID, err)
	}
	if track == nil {
		return nil, fmt.Errorf("track %s can not be streamed", trackID)
	}
	job.Name = fmt.Sprintf("Download: %s (by %s)", track.Title, track.ArtistName())

	progressUpdater(15, "Resolving stream URL...")
	stream, err := e.service.fetcher.StreamForTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stream for %s: %w", trackID, err)
	}
	if stream.Protocol != "progressive" {
		return nil, fmt.Errorf("track %s only offers %s streams, downloads need a progressive one", trackID, stream.Protocol)
	}

	fileName := Sanitize(fmt.Sprintf("%s - %s", track.ArtistName(), track.Title)) + ".mp3"
	filePath := filepath.Join(downloadPath, fileName)

	progressUpdater(25, "Downloading track...")
	written, err := e.downloadFile(ctx, stream.URL, filePath, progressUpdater)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to download track: %w", err)
	}

	progressUpdater(85, "Writing tags...")
	if err := e.service.tagWriter.WriteFileTags(ctx, filePath, track); err != nil {
		return nil, fmt.Errorf("failed to tag %s: %w", filePath, err)
	}

	progressUpdater(100, "Download complete")
	return map[string]any{
		"path":  filePath,
		"bytes": strconv.FormatInt(written, 10),
	}, nil
}

// Cleanup is a no-op for download jobs; partial files are removed on error.
func (e *DownloadJobTask) Cleanup(job *jobs.Job) error {
	return nil
}

// downloadFile streams the URL into filePath, reporting progress in the
// 25%-85% range of the overall job.
func (e *DownloadJobTask) downloadFile(ctx context.Context, rawurl, filePath string, progressUpdater func(int, string)) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return 0, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var written int64
	buf := make([]byte, 128*1024)
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}
		n, readErr := res.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if res.ContentLength > 0 {
				ratio := float64(written) / float64(res.ContentLength)
				progressUpdater(25+int(ratio*60), fmt.Sprintf("Downloading... %.1f%% (%.1f MB / %.1f MB)",
					ratio*100,
					float64(written)/(1024*1024),
					float64(res.ContentLength)/(1024*1024)))
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
