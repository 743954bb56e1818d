package apply_template

import "time"

// Request модель запроса на применение шаблона к диапазону дат
type Request struct {
	TemplateID     int64     // ID шаблона
	OfficeID       int64     // ID офиса
	StartDate      time.Time // Первая дата диапазона (включительно)
	EndDate        time.Time // Последняя дата диапазона (включительно)
	SkipCustomized bool      // Не трогать дни с ручными правками
}

// Response модель ответа с результатом применения
type Response struct {
	DaysProcessed     int // Сколько дат обработано
	WorkingDays       int // Из них рабочих
	SlotsCreated      int // Создано слотов
	SkippedCustomized int // Пропущено дней с ручными правками
}
