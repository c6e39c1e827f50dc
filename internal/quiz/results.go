package quiz

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrResultNotFound = errors.New("quiz result not found or unauthorized")

// DailyLimit is how many quizzes a user may start per local day.
const DailyLimit = 3

// maxStoredResults caps history per user; hitting the cap purges the
// user's rows before inserting, like a crude ring buffer.
const maxStoredResults = 50

type ResultService struct {
	DB  *gorm.DB
	Loc *time.Location
}

func (s *ResultService) Create(ctx context.Context, userID uint64, tense string, totalQuestions int) (*Result, error) {
	res := &Result{
		UserID:         userID,
		Tense:          tense,
		TotalQuestions: totalQuestions,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Result{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count >= maxStoredResults {
			if err := tx.Where("user_id = ?", userID).Delete(&Result{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(res).Error
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResultService) UpdateScores(ctx context.Context, quizID, userID uint64, correct, wrong int) (*Result, error) {
	res := s.DB.WithContext(ctx).
		Model(&Result{}).
		Where("id = ? AND user_id = ?", quizID, userID).
		Updates(map[string]any{
			"correct_answers": correct,
			"wrong_answers":   wrong,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrResultNotFound
	}

	var out Result
	if err := s.DB.WithContext(ctx).First(&out, quizID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ResultService) ListByUser(ctx context.Context, userID uint64) ([]Result, error) {
	var out []Result
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountToday counts quizzes started since local midnight in the
// operational timezone.
func (s *ResultService) CountToday(ctx context.Context, userID uint64) (int64, error) {
	now := time.Now().In(s.Loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&Result{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

// NextQuizTime reports how long until the daily limit resets: the first
// local midnight after the user's latest quiz. Zero means they can start
// right away.
func (s *ResultService) NextQuizTime(ctx context.Context, userID uint64) (hours, minutes int, err error) {
	var last Result
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&last).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	lastLocal := last.CreatedAt.In(s.Loc)
	nextMidnight := time.Date(lastLocal.Year(), lastLocal.Month(), lastLocal.Day(), 0, 0, 0, 0, s.Loc).AddDate(0, 0, 1)

	diff := time.Until(nextMidnight)
	if diff < 0 {
		return 0, 0, nil
	}

	hours = int(diff.Hours())
	minutes = int(diff.Minutes())%60 + 1
	return hours, minutes, nil
}
