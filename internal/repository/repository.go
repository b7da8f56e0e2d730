package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User      UserRepository
	Category  CategoryRepository
	Ticket    TicketRepository
	Message   MessageRepository
	Manual    ManualRepository
	ManualLog ManualLogRepository
	Session   SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Category:  NewCategoryRepository(db),
		Ticket:    NewTicketRepository(db),
		Message:   NewMessageRepository(db),
		Manual:    NewManualRepository(db),
		ManualLog: NewManualLogRepository(db),
		Session:   NewSessionRepository(db),
	}
}
