package get_availabilities

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailabilities "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availabilities"
)

// AvailabilityResponse HTTP response model: один день окна
type AvailabilityResponse struct {
	Date  string   `json:"date"`  // "2014-08-10"
	Slots []string `json:"slots"` // ["9:30", "10:00"], пустой массив если свободных слотов нет
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailabilities.Response) []AvailabilityResponse {
	days := make([]AvailabilityResponse, len(resp.Days))
	for i, day := range resp.Days {
		days[i] = AvailabilityResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: day.Slots,
		}
	}
	return days
}

// ToUseCaseRequest создает запрос use case из query параметра date
func ToUseCaseRequest(dateStr string) (*getAvailabilities.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailabilities.Request{Date: date}, nil
}
