package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	JobFairRepository     *JobFairRepository
	BoothRepository       *BoothRepository
	AppointmentRepository *AppointmentRepository
	QnaRepository         *QnaRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		JobFairRepository:     NewJobFairRepository(db),
		BoothRepository:       NewBoothRepository(db),
		AppointmentRepository: NewAppointmentRepository(db),
		QnaRepository:         NewQnaRepository(db),
	}
}
