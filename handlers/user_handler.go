package handlers

import (
	"math"
	"regexp"
	"time"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName"`
	MiddleName   *string `json:"middleName"`
	LastName     *string `json:"lastName"`
	MobileNumber *string `json:"mobileNumber"`
	DateOfBirth  *string `json:"dateOfBirth"`
	SchoolName   *string `json:"schoolName"`
	Standard     *string `json:"standard"`
	City         *string `json:"city"`
	Password     *string `json:"password"`
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	if userID != c.Params("id") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You are not authorized to update this profile"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}

	if req.FirstName != nil && *req.FirstName != "" {
		user.FirstName = *req.FirstName
	}
	if req.MiddleName != nil && *req.MiddleName != "" {
		user.MiddleName = *req.MiddleName
	}
	if req.LastName != nil && *req.LastName != "" {
		user.LastName = *req.LastName
	}
	if req.MobileNumber != nil && mobileRegex.MatchString(*req.MobileNumber) {
		user.MobileNumber = *req.MobileNumber
	}
	if req.DateOfBirth != nil {
		if dob, err := time.Parse("2006-01-02", *req.DateOfBirth); err == nil {
			user.DateOfBirth = dob
		}
	}
	if req.SchoolName != nil && *req.SchoolName != "" {
		user.SchoolName = *req.SchoolName
	}
	if req.Standard != nil && *req.Standard != "" {
		user.Standard = *req.Standard
	}
	if req.City != nil && *req.City != "" {
		user.City = *req.City
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Password must be at least 6 characters long"})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to hash password"})
		}
		user.Password = string(hashed)
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func Signout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "Bearer",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
	})
	return c.JSON(fiber.Map{"success": true, "message": "User has been signed out"})
}

func GetPastQuizzes(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var results []models.QuizResult
	err := database.DB.Preload("Quiz").
		Where("user_id = ?", userID).
		Order("submitted_at desc").
		Find(&results).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch past quizzes"})
	}

	type PastQuiz struct {
		ID             string    `json:"id"`
		QuizName       string    `json:"quizName"`
		Categories     []string  `json:"categories"`
		Percentage     int       `json:"percentage"`
		TotalQuestions int       `json:"totalQuestions"`
		SubmittedAt    time.Time `json:"submittedAt"`
		TimeTaken      int       `json:"timeTaken"`
	}

	pastQuizzes := make([]PastQuiz, 0, len(results))
	for _, result := range results {
		// Quiz may have been deleted since the attempt.
		if result.Quiz == nil {
			continue
		}
		pastQuizzes = append(pastQuizzes, PastQuiz{
			ID:             result.ID.String(),
			QuizName:       result.Quiz.Title,
			Categories:     result.Quiz.Categories,
			Percentage:     int(math.Round(float64(result.Score) / float64(result.TotalQuestions) * 100)),
			TotalQuestions: result.TotalQuestions,
			SubmittedAt:    result.SubmittedAt,
			TimeTaken:      result.TimeTaken,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"pastQuizzes": pastQuizzes,
	})
}
