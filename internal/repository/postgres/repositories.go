package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Statements  *StatementRepository
	Politicians *PoliticianRepository
	Profiles    *ProfileRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Statements:  NewStatementRepository(pool),
		Politicians: NewPoliticianRepository(pool),
		Profiles:    NewProfileRepository(pool),
	}
}
