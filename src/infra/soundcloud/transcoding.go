package soundcloud

import "strings"

const defaultCompressionPref = "ogg"

// pickTranscoding selects the transcoding best matching the configured
// transport preference ("progressive" or "hls") and compression preference.
//
// Preview transcodings are dropped when full streams are also available, and
// encrypted protocols are never chosen. A transcoding with the preferred
// compression but the wrong transport beats one with neither.
func pickTranscoding(transcodings []Transcoding, comprPref, streamPref string) *Transcoding {
	if len(transcodings) == 0 {
		return nil
	}
	if comprPref == "" {
		comprPref = defaultCompressionPref
	}
	if len(transcodings) == 1 {
		return &transcodings[0]
	}

	candidates := make([]Transcoding, 0, len(transcodings))
	previews := 0
	for _, t := range transcodings {
		if strings.Contains(t.Format.Protocol, "encrypted") {
			continue
		}
		candidates = append(candidates, t)
		if t.Snipped || strings.Contains(t.URL, "preview") {
			previews++
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Only drop previews when full streams remain.
	if previews > 0 && previews != len(candidates) {
		full := candidates[:0]
		for _, t := range candidates {
			if !t.Snipped && !strings.Contains(t.URL, "preview") {
				full = append(full, t)
			}
		}
		candidates = full
	}

	var secondChoice *Transcoding
	for i := range candidates {
		t := &candidates[i]
		if strings.Contains(t.Format.MimeType, comprPref) {
			if t.Format.Protocol == streamPref {
				return t
			}
			if secondChoice == nil {
				secondChoice = t
			}
		}
	}
	if secondChoice != nil {
		return secondChoice
	}
	// No compression match; still honor the transport preference.
	for i := range candidates {
		if candidates[i].Format.Protocol == streamPref {
			return &candidates[i]
		}
	}
	return &candidates[0]
}
