package entity

type Hall struct {
	Base
	Name        string  `db:"name"`
	Address     string  `db:"address"`
	Description *string `db:"description"`
}
