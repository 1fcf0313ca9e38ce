package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Campus() CampusRepository
	Unit() UnitRepository
	Cycle() CycleRepository
	Submission() SubmissionRepository
	Risk() RiskRepository
	Finding() FindingRepository
	CAP() CAPRepository
	ChatLog() ChatLogRepository

	Close() error
}
