package repository

import (
	"sync"

	"github.com/bdowdell/cuffnote/domain"
)

type calculation struct {
	input   domain.MortgageInput
	summary domain.ScheduleSummary
}

// ScheduleRepositoryMemory is an in-memory implementation of
// ScheduleRepository. Safe for concurrent use.
type ScheduleRepositoryMemory struct {
	mu           sync.Mutex
	calculations []calculation
}

// NewScheduleRepositoryMemory creates a new in-memory schedule repository.
func NewScheduleRepositoryMemory() *ScheduleRepositoryMemory {
	return &ScheduleRepositoryMemory{}
}

// Save stores the computed summary in memory.
func (r *ScheduleRepositoryMemory) Save(
	input domain.MortgageInput,
	summary domain.ScheduleSummary,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calculations = append(r.calculations, calculation{input: input, summary: summary})
	return nil
}
