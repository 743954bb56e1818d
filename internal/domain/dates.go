package domain

import "time"

// DateKey возвращает дату в формате YYYY-MM-DD
// Используется для сравнения дат независимо от часового пояса хранения
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// TruncateToDate обнуляет время, оставляя календарную дату в том же поясе
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate парсит дату YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(date1, date2 time.Time) bool {
	return DateKey(date1) == DateKey(date2)
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	return DateKey(date) < DateKey(now)
}

// DatesInRange возвращает все календарные даты в [start, end] включительно
func DatesInRange(start, end time.Time) []time.Time {
	start = TruncateToDate(start)
	end = TruncateToDate(end)

	dates := make([]time.Time, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
