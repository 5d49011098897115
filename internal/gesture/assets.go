package gesture

import "path"

// AssetBasePath is the URL prefix under which gesture images are served.
const AssetBasePath = "/static/gestures"

const fallbackAsset = "unknown.png"

var assetFiles = map[Label]string{
	ThumbsUp:       "thumbs_up.png",
	ThumbsDown:     "thumbs_down.png",
	Peace:          "peace.png",
	Fist:           "fist.png",
	OpenHand:       "open_hand.png",
	NoHandDetected: "no_hand.png",
}

// AssetPath returns the display image URL for a label. Labels without a
// dedicated image, including Unknown, map to the fallback image.
func AssetPath(l Label) string {
	file, ok := assetFiles[l]
	if !ok {
		file = fallbackAsset
	}
	return path.Join(AssetBasePath, file)
}
