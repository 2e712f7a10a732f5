package domain

import "time"

type Branch struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
