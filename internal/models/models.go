package models

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&Member{},
		&Program{},
		&Position{},
		&Application{},
		&RecruitmentForm{},
		&Division{},
		&Question{},
		&Registration{},
		&Answer{},
		&Agenda{},
		&Attendance{},
	}
}
