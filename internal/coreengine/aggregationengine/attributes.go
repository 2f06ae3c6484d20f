package aggregationengine

// Attribute is one of the fixed MOS rating dimensions.
type Attribute struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Attributes lists the MOS dimensions in display order.
var Attributes = []Attribute{
	{Key: "naturalness", Label: "Naturalness"},
	{Key: "intelligibility", Label: "Intelligibility"},
	{Key: "pronunciation", Label: "Pronunciation"},
	{Key: "prosody", Label: "Prosody"},
	{Key: "speaker_similarity", Label: "Speaker Similarity"},
	{Key: "overall_rating", Label: "Overall"},
}

// AttributeKeys returns all attribute keys in display order.
func AttributeKeys() []string {
	keys := make([]string, len(Attributes))
	for i, a := range Attributes {
		keys[i] = a.Key
	}
	return keys
}

// AttributeLabel returns the display label for a key, or the key itself when
// unknown.
func AttributeLabel(key string) string {
	for _, a := range Attributes {
		if a.Key == key {
			return a.Label
		}
	}
	return key
}

// ValidAttribute reports whether key names a known MOS dimension.
func ValidAttribute(key string) bool {
	for _, a := range Attributes {
		if a.Key == key {
			return true
		}
	}
	return false
}
