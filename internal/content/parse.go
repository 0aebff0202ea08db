package content

import (
	"encoding/json"
	"strings"
)

type instagramOption struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
}

// ParseResponse splits raw model output into display units for the given
// content type:
//
//   - twitter: blank-line separated tweets, empty segments dropped, order kept
//   - instagram: a JSON array of {image, caption} objects reduced to its
//     captions; anything that fails a strict JSON parse falls back to the raw
//     text as a single unit
//   - linkedin: the raw text as a single unit
func ParseResponse(t Type, raw string) []string {
	switch t {
	case TypeTwitter:
		var tweets []string
		for _, seg := range strings.Split(raw, "\n\n") {
			if strings.TrimSpace(seg) == "" {
				continue
			}
			tweets = append(tweets, seg)
		}
		return tweets

	case TypeInstagram:
		var options []instagramOption
		if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &options); err != nil || len(options) == 0 {
			return []string{raw}
		}
		captions := make([]string, 0, len(options))
		for _, opt := range options {
			captions = append(captions, opt.Caption)
		}
		return captions

	default:
		return []string{raw}
	}
}
