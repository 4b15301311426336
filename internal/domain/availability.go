package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/timemask"
)

// AvailabilityDay free slots of one calendar date
type AvailabilityDay struct {
	Date  time.Time
	Slots []string      // Начала свободных получасовых слотов в формате H:MM, по возрастанию
	Mask  timemask.Mask // Те же слоты в виде маски, из неё собираются непрерывные интервалы
}

// HasSlots returns true if at least one slot is free on this date
func (d *AvailabilityDay) HasSlots() bool {
	return len(d.Slots) > 0
}
