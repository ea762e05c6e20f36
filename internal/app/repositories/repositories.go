package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories aggregates all repository instances
type Repositories struct {
	UserRepository     *UserRepository
	EmployeeRepository *EmployeeRepository
}

// NewRepositories creates all repositories sharing the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		EmployeeRepository: NewEmployeeRepository(db),
	}
}
