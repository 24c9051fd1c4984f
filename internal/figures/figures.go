package figures

// Pair is one figure image with its caption. Either half may be empty when
// the PDF yields unequal counts of images and captions.
type Pair struct {
	ImagePath string `json:"image_path,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

// Pairs zips extracted images with extracted captions by index. The i-th
// surviving image is paired with the i-th caption; leftovers on either side
// become half-empty pairs. A PDF with neither images nor captions yields nil.
func Pairs(images []string, captions []string) []Pair {
	n := len(images)
	if len(captions) > n {
		n = len(captions)
	}
	if n == 0 {
		return nil
	}

	pairs := make([]Pair, n)
	for i := range pairs {
		if i < len(images) {
			pairs[i].ImagePath = images[i]
		}
		if i < len(captions) {
			pairs[i].Caption = captions[i]
		}
	}
	return pairs
}
