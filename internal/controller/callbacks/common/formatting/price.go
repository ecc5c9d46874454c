package formatting

import (
	"fmt"
	"math"
)

// FormatPrice цена в юанях, без дробной части если она нулевая
func FormatPrice(price float64) string {
	if price == math.Trunc(price) {
		return fmt.Sprintf("¥%.0f", price)
	}
	return fmt.Sprintf("¥%.2f", price)
}

// FormatPriceShort число без знака валюты, для кнопок
func FormatPriceShort(price float64) string {
	if price == math.Trunc(price) {
		return fmt.Sprintf("%.0f", price)
	}
	return fmt.Sprintf("%.1f", price)
}
