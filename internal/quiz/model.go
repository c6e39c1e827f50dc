package quiz

import "time"

// Result is one quiz run. Created with zero scores when the quiz starts,
// updated when the app submits the answers.
type Result struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"index;not null" json:"user_id"`
	Tense          string    `gorm:"type:text;not null" json:"tense"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	WrongAnswers   int       `gorm:"not null;default:0" json:"wrong_answers"`
	CreatedAt      time.Time `gorm:"index;not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// Question is a generated multiple-choice item. The blank is written as ___.
type Question struct {
	QuestionText  string   `json:"question_text"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongAnswers  []string `json:"wrong_answers"`
}
