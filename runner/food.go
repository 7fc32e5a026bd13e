package runner

import (
	"fmt"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/pthm-cable/slime/food"
)

// LoadFoodImage decodes a PNG or JPEG file into a w×h food field with color.
func LoadFoodImage(path string, w, h int) (*food.Field, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening food image: %w", err)
	}
	f, err := food.FromImage(img, w, h)
	if err != nil {
		return nil, fmt.Errorf("converting food image %s: %w", path, err)
	}
	return f, nil
}
