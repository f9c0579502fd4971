package avatar

// Options lists the allowed values per avatar field, keyed by the JSON
// field name. "none" in accessories means no accessory.
var Options = map[string][]string{
	"top": {
		"longHair", "shortHair", "eyepatch", "hat", "hijab", "turban", "winterHat1", "winterHat2",
		"bob", "bun", "curly", "curvy", "dreads", "frida", "fro", "froBand", "miaWallace",
		"shavedSides", "straight01", "straight02",
	},
	"accessories": {"none", "kurt", "prescription01", "prescription02", "round", "sunglasses", "wayfarers"},
	"hairColor":   {"auburn", "black", "blonde", "brown", "pastelPink", "pink", "platinum", "red", "silverGray"},
	"facialHair":  {"beardLight", "beardMajestic", "moustacheMagnum"},
	"clothing": {
		"blazerAndShirt", "blazerAndSweater", "collarAndSweater", "graphicShirt", "hoodie",
		"overall", "shirtCrewNeck", "shirtScoopNeck", "shirtVNeck",
	},
	"eyes": {
		"close", "cry", "default", "dizzy", "eyeRoll", "happy", "hearts", "side", "squint",
		"surprised", "wink", "winkWacky",
	},
	"eyebrows":  {"angry", "default", "raisedExcited", "sadConcerned"},
	"mouth":     {"concerned", "default", "disbelief", "eating", "grimace", "sad", "scream", "smile", "tongue", "twinkle", "vomit"},
	"skinColor": {"tanned", "yellow", "pale", "light", "brown", "darkBrown", "black"},
}

// Fields is the display order of the avatar fields.
var Fields = []string{"top", "hairColor", "accessories", "facialHair", "clothing", "eyes", "eyebrows", "mouth", "skinColor"}

// Allowed reports whether value is a known option for field.
func Allowed(field, value string) bool {
	for _, v := range Options[field] {
		if v == value {
			return true
		}
	}
	return false
}

// Cycle returns the option after (dir > 0) or before current in field's
// list, wrapping around. An unknown current starts from the first option.
func Cycle(field, current string, dir int) string {
	list := Options[field]
	if len(list) == 0 {
		return current
	}
	idx := 0
	for i, v := range list {
		if v == current {
			idx = i
			break
		}
	}
	if dir >= 0 {
		idx++
	} else {
		idx--
	}
	idx = (idx%len(list) + len(list)) % len(list)
	return list[idx]
}
