package domain

import (
	"fmt"
	"strings"
	"time"
)

// DispatchKey identifica um disparo agendado dentro de uma hora civil.
// A agenda não tem id próprio: é identificada pela posição no cliente junto
// com o horário e o período configurados.
type DispatchKey struct {
	ClientID      string
	ScheduleIndex int
	Time          string
	Period        string
	Slot          string
}

const dispatchSlotLayout = "2006-01-02T15"

func NewDispatchKey(clientID string, index int, entry ScheduleEntry, now time.Time) DispatchKey {
	return DispatchKey{
		ClientID:      clientID,
		ScheduleIndex: index,
		Time:          strings.TrimSpace(entry.Time),
		Period:        entry.Period,
		Slot:          now.In(CivilLocation).Format(dispatchSlotLayout),
	}
}

func (k DispatchKey) String() string {
	return fmt.Sprintf("%s|%d|%s|%s|%s", k.ClientID, k.ScheduleIndex, k.Time, k.Period, k.Slot)
}
