package currency

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format 格式化金额为货币字符串（如 $1,234.56）
func Format(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// Percentage 计算并格式化百分比（如 45.5%）
func Percentage(part, whole float64) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/whole*100)
}
