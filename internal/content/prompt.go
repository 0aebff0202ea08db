package content

import "fmt"

const instagramFormat = `
Generate 3 options. Each option should have:
- Image description (a few words)
- Caption (2-5 sentences, Instagram-style)
- Use hashtags at the end, like #DreamCar #Achievement

Format the output as JSON like this:
[
  {
    "image": "short image description",
    "caption": "Your Instagram caption with hashtags"
  },
  ...
]
`

// BuildPrompt assembles the instruction text for one generation request.
// hasImage only matters for Instagram, where an uploaded image is passed to
// the model alongside the text.
func BuildPrompt(t Type, topic string, hasImage bool) string {
	prompt := fmt.Sprintf("Generate %s content about %q.", t, topic)

	switch t {
	case TypeInstagram:
		prompt += instagramFormat
		if hasImage {
			prompt += " Incorporate the uploaded image into the captions if possible."
		}
	case TypeTwitter:
		prompt += " Provide a thread of 5 tweets, each under 280 characters, numbered 1-5."
	}

	return prompt
}
