package geo

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var distancePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatDistance renders meters as "1 meter" or "52,300 meters".
func FormatDistance(meters float64) string {
	rounded := int64(math.Round(meters))
	if rounded == 1 {
		return "1 meter"
	}
	return distancePrinter.Sprintf("%d meters", rounded)
}
