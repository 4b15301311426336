package export_availabilities

import (
	"context"

	getAvailabilities "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availabilities"
)

type GetAvailabilitiesUseCase interface {
	Execute(ctx context.Context, req *getAvailabilities.Request) (*getAvailabilities.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
