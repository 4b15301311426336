package get_availabilities

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса доступности
type Request struct {
	Date time.Time // Первый день окна (время суток игнорируется)
}

// Response модель ответа: ровно AvailabilityWindowDays дней по возрастанию дат
type Response struct {
	StartDate time.Time
	Days      []domain.AvailabilityDay
}

// TotalSlots количество свободных слотов во всём окне
func (r *Response) TotalSlots() int {
	total := 0
	for _, day := range r.Days {
		total += len(day.Slots)
	}
	return total
}
