package memory

import (
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = model.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	campus     *campusRepository
	unit       *unitRepository
	cycle      *cycleRepository
	submission *submissionRepository
	risk       *riskRepository
	finding    *findingRepository
	cap        *capRepository
	chatLog    *chatLogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	finding := newFindingRepository()
	return &Memory{
		campus:     newCampusRepository(),
		unit:       newUnitRepository(),
		cycle:      newCycleRepository(),
		submission: newSubmissionRepository(),
		risk:       newRiskRepository(),
		finding:    finding,
		cap:        newCAPRepository(finding),
		chatLog:    newChatLogRepository(),
	}
}

func (m *Memory) Campus() interfaces.CampusRepository {
	return m.campus
}

func (m *Memory) Unit() interfaces.UnitRepository {
	return m.unit
}

func (m *Memory) Cycle() interfaces.CycleRepository {
	return m.cycle
}

func (m *Memory) Submission() interfaces.SubmissionRepository {
	return m.submission
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Finding() interfaces.FindingRepository {
	return m.finding
}

func (m *Memory) CAP() interfaces.CAPRepository {
	return m.cap
}

func (m *Memory) ChatLog() interfaces.ChatLogRepository {
	return m.chatLog
}

func (m *Memory) Close() error {
	return nil
}
