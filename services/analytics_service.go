package services

import (
	"sort"

	"github.com/iproutreach/quiz_platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TopPerformer struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	Std       string `json:"std"`
	Score     int    `json:"score"`
	TimeTaken int    `json:"timeTaken"`
}

type DashboardData struct {
	TotalParticipants   int            `json:"totalParticipants"`
	CompletionRatio     float64        `json:"completionRatio"`
	AverageScore        float64        `json:"averageScore"`
	ParticipationByStd  map[string]int `json:"participationByStd"`
	ParticipationByCity map[string]int `json:"participationByCity"`
	TopPerformers       []TopPerformer `json:"topPerformers"`
}

// AggregateQuizIDs resolves the set of quiz IDs whose results feed a given
// quiz's analytics: the quiz itself, or its sub-quizzes when it is a main
// quiz with variants.
func AggregateQuizIDs(quiz *models.Quiz) []uuid.UUID {
	if quiz.IsMainQuiz && len(quiz.SubQuizzes) > 0 {
		ids := make([]uuid.UUID, 0, len(quiz.SubQuizzes))
		for _, sub := range quiz.SubQuizzes {
			ids = append(ids, sub.ID)
		}
		return ids
	}
	return []uuid.UUID{quiz.ID}
}

// RecomputeQuizAnalytics rebuilds a quiz's aggregate statistics from the
// full result set and persists them, replacing whatever the incremental
// path has accumulated. This is the consistent (non-incremental) path used
// by the admin dashboard and the reconcile job.
func RecomputeQuizAnalytics(db *gorm.DB, quiz *models.Quiz) (*DashboardData, error) {
	quizIDs := AggregateQuizIDs(quiz)

	var results []models.QuizResult
	if err := db.Preload("User").Where("quiz_id IN ?", quizIDs).Find(&results).Error; err != nil {
		return nil, err
	}

	data := &DashboardData{
		ParticipationByStd:  map[string]int{},
		ParticipationByCity: map[string]int{},
		TopPerformers:       []TopPerformer{},
	}

	data.TotalParticipants = len(results)
	completed := 0
	totalScore := 0
	for _, result := range results {
		if result.Completed {
			completed++
		}
		totalScore += result.Score

		if result.User != nil {
			std := result.User.Standard
			if std == "" {
				std = "N/A"
			}
			city := result.User.City
			if city == "" {
				city = "N/A"
			}
			data.ParticipationByStd[std]++
			data.ParticipationByCity[city]++
		}
	}

	if data.TotalParticipants > 0 {
		data.CompletionRatio = float64(completed) / float64(data.TotalParticipants)
		data.AverageScore = float64(totalScore) / float64(data.TotalParticipants)
	}

	withUser := make([]models.QuizResult, 0, len(results))
	for _, result := range results {
		if result.User != nil {
			withUser = append(withUser, result)
		}
	}
	sort.SliceStable(withUser, func(i, j int) bool {
		return withUser[i].Score > withUser[j].Score
	})
	if len(withUser) > 5 {
		withUser = withUser[:5]
	}
	for _, result := range withUser {
		data.TopPerformers = append(data.TopPerformers, TopPerformer{
			Name:      result.User.FullName(),
			City:      result.User.City,
			Std:       result.User.Standard,
			Score:     result.Score,
			TimeTaken: result.TimeTaken,
		})
	}

	analytics := models.QuizAnalytics{
		QuizID:              quiz.ID,
		TotalParticipants:   data.TotalParticipants,
		CompletionRatio:     data.CompletionRatio,
		AverageScore:        data.AverageScore,
		ParticipationByStd:  data.ParticipationByStd,
		ParticipationByCity: data.ParticipationByCity,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "quiz_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_participants", "completion_ratio", "average_score",
			"participation_by_std", "participation_by_city", "updated_at",
		}),
	}).Create(&analytics).Error
	if err != nil {
		return nil, err
	}

	return data, nil
}

// RecordSubmission folds one scored submission into the quiz's running
// aggregate using newAvg = (oldAvg*(n-1) + v) / n. The analytics row is
// locked for the duration of the caller's transaction so concurrent
// submissions cannot lose updates.
func RecordSubmission(tx *gorm.DB, quizID uuid.UUID, user *models.User, breakdown *ScoreBreakdown) error {
	var analytics models.QuizAnalytics
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("quiz_id = ?", quizID).
		First(&analytics).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		analytics = models.QuizAnalytics{QuizID: quizID}
		if err := tx.Create(&analytics).Error; err != nil {
			return err
		}
	}

	n := float64(analytics.TotalParticipants + 1)
	completedValue := 0.0
	if breakdown.SkippedQuestions == 0 {
		completedValue = 1.0
	}

	analytics.TotalParticipants++
	analytics.CompletionRatio = (analytics.CompletionRatio*(n-1) + completedValue) / n
	analytics.AverageScore = (analytics.AverageScore*(n-1) + float64(breakdown.Score)) / n

	if analytics.ParticipationByStd == nil {
		analytics.ParticipationByStd = map[string]int{}
	}
	if analytics.ParticipationByCity == nil {
		analytics.ParticipationByCity = map[string]int{}
	}
	std := user.Standard
	if std == "" {
		std = "N/A"
	}
	city := user.City
	if city == "" {
		city = "N/A"
	}
	analytics.ParticipationByStd[std]++
	analytics.ParticipationByCity[city]++

	return tx.Save(&analytics).Error
}
