package repository

import "github.com/bdowdell/cuffnote/domain"

// ScheduleRepository records computed schedule summaries together with the
// terms that produced them.
type ScheduleRepository interface {
	Save(input domain.MortgageInput, summary domain.ScheduleSummary) error
}
