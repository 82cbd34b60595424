// Package money содержит утилиты для отображения денежных сумм.
package money

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount переводит сумму из минорных единиц в строку с символом валюты.
// Неизвестный код валюты форматируется числом с самим кодом.
func FormatAmount(minor int64, currencyCode string) string {
	amount := float64(minor) / 100

	unit, err := currency.ParseISO(strings.ToUpper(currencyCode))
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, currencyCode)
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// PercentageDiff возвращает процент скидки между исходной и расчётной ценой.
// При отсутствии скидки или некорректных входных данных возвращается ноль.
func PercentageDiff(original, calculated int64) int {
	if original <= 0 || calculated >= original {
		return 0
	}
	return int(math.Round(float64(original-calculated) / float64(original) * 100))
}
