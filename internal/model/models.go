package model

// All returns every model in migration order (referenced tables first)
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&Person{},
		&Role{},
		&Business{},
		&BusinessPerson{},
		&Product{},
		&Warehouse{},
		&Recipe{},
	}
}
