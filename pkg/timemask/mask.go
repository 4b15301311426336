// Package timemask кодирует занятость суток в битовую маску из 48 получасовых слотов.
//
// Слот с индексом i (0 = 00:00, 47 = 23:30) соответствует биту 47-i:
// самый ранний слот суток - старший бит 48-битного слова.
// Интервал 09:30-12:30 кодируется как 0b11111100000000000000000000000.
package timemask

import (
	"fmt"
	"math/bits"
	"time"
)

const (
	// SlotDuration длительность одного слота
	SlotDuration = 30 * time.Minute

	// SlotsPerDay количество слотов в сутках
	SlotsPerDay = 48

	// Width ширина маски в битах
	Width = SlotsPerDay

	slotMinutes = int(SlotDuration / time.Minute)
)

// Mask битовая маска занятости одних суток
type Mask uint64

// Empty маска без единого слота
const Empty Mask = 0

// FullDay маска, покрывающая все 48 слотов
const FullDay Mask = (1 << Width) - 1

// Encode переводит интервал [startsAt, endsAt) в маску
//
// Интервал должен лежать внутри одних суток и быть выровнен по SlotDuration.
// endsAt ровно в полночь следующих суток считается концом суток startsAt.
// Невыровненные границы округляются вниз до начала слота.
func Encode(startsAt, endsAt time.Time) Mask {
	startSlot := slotIndexOf(startsAt)

	endSlot := SlotsPerDay
	if sameDate(startsAt, endsAt) {
		endSlot = slotIndexOf(endsAt)
	}

	count := endSlot - startSlot
	if count <= 0 {
		return Empty
	}

	// offset - количество слотов после конца интервала до полуночи
	offset := SlotsPerDay - endSlot
	return Mask(((uint64(1) << count) - 1) << offset)
}

// Decode возвращает метки свободных слотов маски в порядке возрастания времени
func Decode(m Mask) []string {
	return m.Slots()
}

// Slots возвращает метки слотов ("9:30", "10:00", ...), биты которых выставлены
// Для пустой маски возвращается пустой (не nil) слайс
func (m Mask) Slots() []string {
	indices := m.Indices()
	labels := make([]string, len(indices))
	for i, index := range indices {
		labels[i] = SlotLabel(index)
	}
	return labels
}

// Indices возвращает индексы выставленных слотов по возрастанию
func (m Mask) Indices() []int {
	m &= FullDay
	indices := make([]int, 0, bits.OnesCount64(uint64(m)))
	if m == Empty {
		return indices
	}

	for index := 0; index < SlotsPerDay; index++ {
		if m.Has(index) {
			indices = append(indices, index)
		}
	}
	return indices
}

// Has сообщает, выставлен ли слот с указанным индексом
func (m Mask) Has(index int) bool {
	if index < 0 || index >= SlotsPerDay {
		return false
	}
	return m&bitFor(index) != 0
}

// Count количество выставленных слотов
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m & FullDay))
}

// BitLen длина значащей части маски: расстояние в слотах от первого
// выставленного слота до полуночи
func (m Mask) BitLen() int {
	return bits.Len64(uint64(m & FullDay))
}

// String печатает маску в двоичном виде без ведущих нулей
func (m Mask) String() string {
	return fmt.Sprintf("0b%b", uint64(m&FullDay))
}

// SlotLabel форматирует начало слота как H:MM (час без ведущего нуля)
func SlotLabel(index int) string {
	minutes := index * slotMinutes
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// SlotStart возвращает момент начала слота в сутках date
func SlotStart(date time.Time, index int) time.Time {
	minutes := index * slotMinutes
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

func bitFor(index int) Mask {
	return 1 << (Width - 1 - index)
}

// slotIndexOf вычисляет индекс слота по времени на часах, а не по разнице
// с полуночью, чтобы сутки с переходом на летнее время не сдвигали маску
func slotIndexOf(t time.Time) int {
	return (t.Hour()*60 + t.Minute()) / slotMinutes
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
